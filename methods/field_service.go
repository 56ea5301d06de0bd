package methods

import (
	"fmt"
	"strings"

	"gitee.com/gooffice/gooffice/spreadsheet"
	"github.com/GrainArc/SchemaMap/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExtractionError 字段模板不可读或为空，提取返回空集合
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("field extraction failed: %s", e.Reason)
}

// 模板固定列：标签、类型提示、示例值、备注，第一行为表头
// 列集合是版本化契约，改动要同步工作簿编解码
const (
	colLabel = iota
	colTypeHint
	colSample
	colNotes
)

// 提取时轮流分配的展示色
var fieldColors = []string{"#4e79a7", "#f28e2b", "#59a14f", "#e15759", "#b07aa1", "#76b7b2"}

type FieldService struct {
	db *gorm.DB
}

func NewFieldService() *FieldService {
	return &FieldService{db: models.DB}
}

// ExtractFields 解析上传的字段模板
func (fs *FieldService) ExtractFields(path string) ([]models.FieldRecord, error) {
	ss, err := spreadsheet.Open(path)
	if err != nil {
		return []models.FieldRecord{}, &ExtractionError{Reason: "cannot open sheet: " + err.Error()}
	}
	return extractRecords(ss)
}

func extractRecords(ss *spreadsheet.Workbook) ([]models.FieldRecord, error) {
	sheets := ss.Sheets()
	if len(sheets) == 0 {
		return []models.FieldRecord{}, &ExtractionError{Reason: "workbook has no sheets"}
	}
	rows := sheets[0].Rows()
	if len(rows) == 0 {
		return []models.FieldRecord{}, &ExtractionError{Reason: "sheet is empty"}
	}

	var records []models.FieldRecord
	for _, row := range rows[1:] {
		cells := row.Cells()
		if allCellsEmpty(cells) {
			continue
		}
		// 只有标签的行也是合法字段，其余属性取默认值
		// 行号取自表格本身，生成端省略空行时下标会错位
		rec := models.FieldRecord{
			FieldID:   uuid.New().String(),
			Label:     cellString(cells, colLabel),
			TypeHint:  cellString(cells, colTypeHint),
			Sample:    cellString(cells, colSample),
			Notes:     cellString(cells, colNotes),
			Color:     fieldColors[len(records)%len(fieldColors)],
			SourceRow: int(row.RowNumber()),
		}
		records = append(records, rec)
	}
	if records == nil {
		records = []models.FieldRecord{}
	}
	return records, nil
}

func cellString(cells []spreadsheet.Cell, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx].GetString())
}

func allCellsEmpty(cells []spreadsheet.Cell) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell.GetString()) != "" {
			return false
		}
	}
	return true
}

// ReplaceFields 重新上传即整体替换，不做合并
func (fs *FieldService) ReplaceFields(records []models.FieldRecord) error {
	return fs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.FieldRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

func (fs *FieldService) ListFields() ([]models.FieldRecord, error) {
	var records []models.FieldRecord
	err := fs.db.Order("source_row").Find(&records).Error
	return records, err
}

func (fs *FieldService) GetField(fieldID string) (*models.FieldRecord, error) {
	var rec models.FieldRecord
	if err := fs.db.Where("field_id = ?", fieldID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ModifyField 用户就地编辑标签和属性
func (fs *FieldService) ModifyField(fieldID string, label, typeHint, sample, notes, color string) error {
	updates := map[string]interface{}{
		"label":     label,
		"type_hint": typeHint,
		"sample":    sample,
		"notes":     notes,
	}
	if color != "" {
		updates["color"] = color
	}
	return fs.db.Model(&models.FieldRecord{}).Where("field_id = ?", fieldID).Updates(updates).Error
}

func (fs *FieldService) DeleteField(fieldID string) error {
	return fs.db.Where("field_id = ?", fieldID).Delete(&models.FieldRecord{}).Error
}
