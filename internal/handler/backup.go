package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"jar-ledger/internal/models"
	"jar-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BackupHandler writes and restores JSON snapshots of the whole dataset.
type BackupHandler struct {
	DB        *gorm.DB
	BackupDir string
}

func NewBackupHandler(db *gorm.DB, backupDir string) *BackupHandler {
	return &BackupHandler{
		DB:        db,
		BackupDir: backupDir,
	}
}

// backupData is the snapshot file contents: everything needed to rebuild the
// business state.
type backupData struct {
	Created   time.Time         `json:"created"`
	Consumers []models.Consumer `json:"consumers"`
	Entries   []models.Entry    `json:"entries"`
	Settings  []models.Setting  `json:"settings"`
}

// CreateBackup writes a full snapshot to the backup directory.
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	data := backupData{Created: time.Now()}

	if err := h.DB.Order("id ASC").Find(&data.Consumers).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query consumers failed")
		return
	}
	if err := h.DB.Order("id ASC").Find(&data.Entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query entries failed")
		return
	}
	if err := h.DB.Find(&data.Settings).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query settings failed")
		return
	}

	raw, err := json.MarshalIndent(&data, "", "  ")
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "serialize failed")
		return
	}

	if err := os.MkdirAll(h.BackupDir, 0o755); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create backup dir failed")
		return
	}

	fileName := fmt.Sprintf("backup-%s.json", uuid.New().String())
	filePath := filepath.Join(h.BackupDir, fileName)

	if err := os.WriteFile(filePath, raw, 0o600); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "write backup file failed")
		return
	}

	backup := models.Backup{
		FileName: fileName,
		FilePath: filePath,
		Size:     int64(len(raw)),
	}
	if err := h.DB.Create(&backup).Error; err != nil {
		_ = os.Remove(filePath)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save backup record failed")
		return
	}

	util.Success(c, util.Response{
		"backup": gin.H{
			"id":         backup.ID,
			"file_name":  backup.FileName,
			"size":       backup.Size,
			"created_at": backup.CreatedAt,
		},
	})
}

// ListBackups lists existing snapshots, newest first.
func (h *BackupHandler) ListBackups(c *gin.Context) {
	var list []models.Backup
	if err := h.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query backups failed")
		return
	}

	items := make([]gin.H, 0, len(list))
	for i := range list {
		b := &list[i]
		items = append(items, gin.H{
			"id":         b.ID,
			"file_name":  b.FileName,
			"size":       b.Size,
			"created_at": b.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"items": items,
	})
}

// DownloadBackup serves a snapshot file.
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	id := c.Param("id")

	var backup models.Backup
	if err := h.DB.First(&backup, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query backup failed")
		}
		return
	}

	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", backup.FileName))
	c.File(backup.FilePath)
}

// RestoreBackup replaces the current dataset with a snapshot, in one
// transaction: either the whole snapshot lands or nothing changes.
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	id := c.Param("id")

	var backup models.Backup
	if err := h.DB.First(&backup, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query backup failed")
		}
		return
	}

	raw, err := os.ReadFile(backup.FilePath)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "read backup file failed")
		return
	}

	var data backupData
	if err := json.Unmarshal(raw, &data); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "parse backup file failed")
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Entry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.Consumer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.Setting{}).Error; err != nil {
			return err
		}
		for i := range data.Consumers {
			data.Consumers[i].ID = 0
			if err := tx.Create(&data.Consumers[i]).Error; err != nil {
				return err
			}
		}
		for i := range data.Entries {
			data.Entries[i].ID = 0
			if err := tx.Create(&data.Entries[i]).Error; err != nil {
				return err
			}
		}
		for i := range data.Settings {
			if err := tx.Create(&data.Settings[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "restore failed")
		return
	}

	util.Success(c, util.Response{
		"message":   "restore complete",
		"consumers": len(data.Consumers),
		"entries":   len(data.Entries),
	})
}

// DeleteBackup removes a snapshot record and its file.
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	id := c.Param("id")

	var backup models.Backup
	if err := h.DB.First(&backup, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query backup failed")
		}
		return
	}

	if err := h.DB.Delete(&backup).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "delete failed")
		return
	}
	_ = os.Remove(backup.FilePath)

	util.Success(c, util.Response{
		"message": "backup deleted",
	})
}
