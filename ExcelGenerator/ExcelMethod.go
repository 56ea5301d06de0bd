package ExcelGenerator

import (
	"encoding/json"
	"fmt"
	"strings"

	"gitee.com/gooffice/gooffice/schema/soo/sml"
	"gitee.com/gooffice/gooffice/spreadsheet"
	"github.com/GrainArc/SchemaMap/models"
)

// 映射交换工作簿的固定结构：
// 数据表一行一条映射，隐藏的元数据表记录所属Schema
const (
	SheetMappings = "Mappings"
	SheetMeta     = "_schemamap_meta"

	ColTargetPath     = "Target Path"
	ColNodeType       = "Node Type"
	ColFieldID        = "Field ID"
	ColFieldLabel     = "Field Label"
	ColFieldAttrs     = "Field Attrs"
	ColMappingDetails = "Mapping Details"
	ColOutputs        = "Outputs"
	ColTimestamp      = "Timestamp"

	MetaKeySchema  = "schema_key"
	MetaKeyVersion = "format_version"
	FormatVersion  = "1"
)

// 列的顺序只影响导出，导入按表头名定位，后续加列不破坏旧文件
var dataColumns = []string{
	ColTargetPath,
	ColNodeType,
	ColFieldID,
	ColFieldLabel,
	ColFieldAttrs,
	ColMappingDetails,
	ColOutputs,
	ColTimestamp,
}

// CodecError 工作簿编解码失败，导入导出整体中止
type CodecError struct {
	Stage  string
	Reason string
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("workbook %s failed: %s", e.Stage, e.Reason)
}

// Export 把一个Schema的映射集序列化为工作簿
// 零条映射也要产出带表头的数据表和完整的元数据表
func Export(schemaKey string, recs []models.MappingRecord) (*spreadsheet.Workbook, error) {
	if schemaKey == "" {
		return nil, &CodecError{Stage: "export", Reason: "schema key is empty"}
	}

	ss := spreadsheet.New()
	data := ss.AddSheet()
	data.SetName(SheetMappings)

	header := data.AddRow()
	for _, col := range dataColumns {
		header.AddCell().SetString(col)
	}

	for _, rec := range recs {
		// 先校验再写行，内存数据非法时文件一个字节都不产出
		outputs, err := rec.OutputList()
		if err != nil {
			return nil, &CodecError{Stage: "export", Reason: "bad outputs on " + rec.TargetNodeID + ": " + err.Error()}
		}
		attrs, err := rec.Attrs()
		if err != nil {
			return nil, &CodecError{Stage: "export", Reason: "bad field attrs on " + rec.TargetNodeID + ": " + err.Error()}
		}
		outputsJSON, _ := json.Marshal(outputs)
		attrsJSON, _ := json.Marshal(attrs)

		row := data.AddRow()
		row.AddCell().SetString(rec.TargetNodeID)
		row.AddCell().SetString(rec.NodeType)
		row.AddCell().SetString(rec.FieldID)
		row.AddCell().SetString(rec.FieldLabel)
		row.AddCell().SetString(string(attrsJSON))
		row.AddCell().SetString(rec.MappingDetails)
		row.AddCell().SetString(string(outputsJSON))
		row.AddCell().SetString(rec.Timestamp)
	}

	meta := ss.AddSheet()
	meta.SetName(SheetMeta)
	keyRow := meta.AddRow()
	keyRow.AddCell().SetString(MetaKeySchema)
	keyRow.AddCell().SetString(schemaKey)
	verRow := meta.AddRow()
	verRow.AddCell().SetString(MetaKeyVersion)
	verRow.AddCell().SetString(FormatVersion)

	hideSheet(ss, SheetMeta)
	return ss, nil
}

// ExportToFile 导出并落盘
func ExportToFile(path, schemaKey string, recs []models.MappingRecord) error {
	ss, err := Export(schemaKey, recs)
	if err != nil {
		return err
	}
	if err := ss.SaveToFile(path); err != nil {
		return &CodecError{Stage: "export", Reason: err.Error()}
	}
	return nil
}

// hideSheet 通过底层XML把指定工作表设为隐藏
func hideSheet(ss *spreadsheet.Workbook, name string) {
	for _, sheet := range ss.X().Sheets.Sheet {
		if sheet.NameAttr == name {
			sheet.StateAttr = sml.ST_SheetStateHidden
		}
	}
}

// Import 解析映射交换工作簿，恢复schemaKey和完整映射集
// 任何一行失败整个导入作废，不安装部分结果
func Import(path string) (string, []models.MappingRecord, error) {
	ss, err := spreadsheet.Open(path)
	if err != nil {
		return "", nil, &CodecError{Stage: "import", Reason: "cannot open workbook: " + err.Error()}
	}
	return importWorkbook(ss)
}

func importWorkbook(ss *spreadsheet.Workbook) (string, []models.MappingRecord, error) {
	var metaSheet, dataSheet *spreadsheet.Sheet
	for i := range ss.Sheets() {
		sheet := ss.Sheets()[i]
		switch sheet.Name() {
		case SheetMeta:
			metaSheet = &sheet
		case SheetMappings:
			dataSheet = &sheet
		}
	}
	if metaSheet == nil {
		return "", nil, &CodecError{Stage: "import", Reason: "meta sheet " + SheetMeta + " is missing"}
	}
	if dataSheet == nil {
		return "", nil, &CodecError{Stage: "import", Reason: "data sheet " + SheetMappings + " is missing"}
	}

	// 先读元数据表，调用方要靠schemaKey自动选中对应Schema
	meta := make(map[string]string)
	for _, row := range metaSheet.Rows() {
		cells := row.Cells()
		if len(cells) >= 2 {
			meta[cells[0].GetString()] = cells[1].GetString()
		}
	}
	schemaKey := meta[MetaKeySchema]
	if schemaKey == "" {
		return "", nil, &CodecError{Stage: "import", Reason: "meta sheet has no " + MetaKeySchema}
	}

	rows := dataSheet.Rows()
	if len(rows) == 0 {
		return "", nil, &CodecError{Stage: "import", Reason: "data sheet has no header row"}
	}

	// 按表头名定位列，列序无关，未知列忽略
	colIndex := make(map[string]int)
	for i, cell := range rows[0].Cells() {
		colIndex[cell.GetString()] = i
	}
	if _, ok := colIndex[ColTargetPath]; !ok {
		return "", nil, &CodecError{Stage: "import", Reason: "header misses column " + ColTargetPath}
	}

	recs := make([]models.MappingRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := row.Cells()
		field := func(col string) string {
			idx, ok := colIndex[col]
			if !ok || idx >= len(cells) {
				return ""
			}
			return cells[idx].GetString()
		}

		target := field(ColTargetPath)
		if target == "" && rowEmpty(cells) {
			continue
		}
		if target == "" {
			return "", nil, &CodecError{Stage: "import", Reason: "data row without target path"}
		}

		rec := models.MappingRecord{
			SchemaKey:      schemaKey,
			TargetNodeID:   target,
			NodeName:       lastSegment(target),
			NodeType:       field(ColNodeType),
			FieldID:        field(ColFieldID),
			FieldLabel:     field(ColFieldLabel),
			MappingDetails: field(ColMappingDetails),
			Timestamp:      field(ColTimestamp),
		}

		var outputs []models.OutputSpec
		if text := field(ColOutputs); text != "" {
			if err := json.Unmarshal([]byte(text), &outputs); err != nil {
				return "", nil, &CodecError{Stage: "import", Reason: "bad outputs on " + target + ": " + err.Error()}
			}
		}
		if err := rec.SetOutputs(outputs); err != nil {
			return "", nil, &CodecError{Stage: "import", Reason: err.Error()}
		}

		var attrs models.FieldAttrs
		if text := field(ColFieldAttrs); text != "" {
			if err := json.Unmarshal([]byte(text), &attrs); err != nil {
				return "", nil, &CodecError{Stage: "import", Reason: "bad field attrs on " + target + ": " + err.Error()}
			}
		}
		if err := rec.SetAttrs(attrs); err != nil {
			return "", nil, &CodecError{Stage: "import", Reason: err.Error()}
		}

		recs = append(recs, rec)
	}
	return schemaKey, recs, nil
}

func rowEmpty(cells []spreadsheet.Cell) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell.GetString()) != "" {
			return false
		}
	}
	return true
}

func lastSegment(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}
