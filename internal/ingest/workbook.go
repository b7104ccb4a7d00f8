// Package ingest 解析 LinkedIn 创作者分析导出文件（XLSX/CSV）。
//
// 导出格式是临时性约定（基于第三方文档而非官方契约），列名随时可能变化，
// 因此所有解析都按防御式处理：缺少的工作表降级为警告，坏行跳过不致命。
//
// 聚合导出（PROVISIONAL）:
//
//	DISCOVERY    -> 账号级每日曝光
//	ENGAGEMENT   -> 每帖 reactions / comments / shares / clicks
//	TOP POSTS    -> 表现最好的帖子（列结构同 ENGAGEMENT）
//	FOLLOWERS    -> 每日粉丝快照
//	DEMOGRAPHICS -> 受众画像
//
// 单帖导出（PROVISIONAL）:
//
//	PERFORMANCE      -> 键值对布局的单帖指标
//	TOP DEMOGRAPHICS -> 单帖受众画像表格
package ingest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// 支持的扩展名
var allowedExtensions = map[string]struct{}{
	".xlsx": {},
	".xls":  {},
	".csv":  {},
}

// Workbook 文件中的全部工作表，表名统一为去空格后的大写
type Workbook struct {
	Sheets   map[string][][]string
	Warnings []string
}

// HasSheet 判断工作表是否存在
func (w *Workbook) HasSheet(name string) bool {
	_, ok := w.Sheets[name]
	return ok
}

// ValidateUpload 解析前的文件校验：存在、非空、扩展名受支持。
// 大小上限由 HTTP 边界负责，这里不重复检查
func ValidateUpload(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Errorf("file not found: %s", filepath.Base(path))
	}
	if info.Size() == 0 {
		return errors.New("uploaded file is empty")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := allowedExtensions[ext]; !ok {
		return errors.Errorf("unsupported file type '%s'", ext)
	}
	return nil
}

// LoadWorkbook 读取 XLSX 的全部工作表；CSV 作为单表读取，表名取文件主干。
// 单个工作表读取失败记入警告，不影响其余工作表
func LoadWorkbook(path string) (*Workbook, error) {
	if err := ValidateUpload(path); err != nil {
		return nil, err
	}

	wb := &Workbook{Sheets: make(map[string][][]string)}
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".csv" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open csv file")
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, errors.Wrap(err, "failed to read csv file")
		}
		stem := strings.TrimSuffix(filepath.Base(path), ext)
		wb.Sheets[normalizeSheetName(stem)] = rows
		return wb, nil
	}

	xl, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file '%s'", filepath.Base(path))
	}
	defer xl.Close()

	for _, name := range xl.GetSheetList() {
		rows, err := xl.GetRows(name)
		if err != nil {
			wb.Warnings = append(wb.Warnings, "could not read sheet '"+name+"'")
			continue
		}
		wb.Sheets[normalizeSheetName(name)] = rows
	}

	if len(wb.Sheets) == 0 {
		return nil, errors.New("no sheets found in file")
	}
	return wb, nil
}

func normalizeSheetName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
