package methods

import (
	"errors"
	"time"

	"github.com/GrainArc/SchemaMap/models"
	"gorm.io/gorm"
)

type MappingService struct {
	db *gorm.DB
}

func NewMappingService() *MappingService {
	return &MappingService{db: models.DB}
}

// SaveMapping 按(schemaKey, targetNodeId)去重保存，一个叶子最多一条映射
// 已有记录就地更新并刷新时间戳，后写覆盖先写
func (ms *MappingService) SaveMapping(rec *models.MappingRecord) error {
	rec.Timestamp = time.Now().Format("2006-01-02 15:04:05")

	var existing models.MappingRecord
	err := ms.db.Where("schema_key = ? AND target_node_id = ?", rec.SchemaKey, rec.TargetNodeID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ms.db.Create(rec).Error
	}
	if err != nil {
		return err
	}
	rec.ID = existing.ID
	return ms.db.Save(rec).Error
}

func (ms *MappingService) ListMappings(schemaKey string) ([]models.MappingRecord, error) {
	var recs []models.MappingRecord
	err := ms.db.Where("schema_key = ?", schemaKey).Order("id").Find(&recs).Error
	return recs, err
}

func (ms *MappingService) DeleteMapping(schemaKey, targetNodeID string) error {
	return ms.db.Where("schema_key = ? AND target_node_id = ?", schemaKey, targetNodeID).
		Delete(&models.MappingRecord{}).Error
}

// ClearMappings 整个Schema的映射一键清空
func (ms *MappingService) ClearMappings(schemaKey string) error {
	return ms.db.Where("schema_key = ?", schemaKey).Delete(&models.MappingRecord{}).Error
}

// InstallMappings 导入工作簿后整体替换目标Schema的映射集
// 在一个事务里完成，失败不留下半套数据
func (ms *MappingService) InstallMappings(schemaKey string, recs []models.MappingRecord) error {
	return ms.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schema_key = ?", schemaKey).Delete(&models.MappingRecord{}).Error; err != nil {
			return err
		}
		for i := range recs {
			recs[i].ID = 0
			recs[i].SchemaKey = schemaKey
			if err := tx.Create(&recs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
