package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"faculty-appraisal/internal/model"
	"faculty-appraisal/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoAppraisals = errors.New("该周期暂无考核记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response。
// Excel 格式：单 Sheet，一行一位教师，列为组织归属、各维度分量与总分。
type ExportService interface {
	// ExportCycleResults 导出指定周期的考核结果为 Excel
	ExportCycleResults(ctx context.Context, cycleID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// 导出分页批大小
const exportBatchSize = 500

func (s *exportService) ExportCycleResults(ctx context.Context, cycleID string) (*bytes.Buffer, string, error) {
	cycle, err := s.repo.Cycle.GetByID(ctx, cycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrCycleNotFound
		}
		s.logger.Error("查询考核周期失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "考核结果"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"工号", "姓名", "职称", "系", "学院", "科研", "教学质量", "校内服务", "社会服务", "总分", "状态"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", ErrExportGenerateFail
		}
	}

	// 表头加粗
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheet, "A1", endCell, style)
	}

	filters := &repository.AppraisalListFilters{CycleID: cycleID}
	rowNum := 2
	exported := 0

	for offset := 0; ; offset += exportBatchSize {
		appraisals, total, err := s.repo.Appraisal.List(ctx, filters, offset, exportBatchSize)
		if err != nil {
			s.logger.Error("查询考核列表失败", zap.Error(err))
			return nil, "", err
		}

		for i := range appraisals {
			writeAppraisalRow(f, sheet, rowNum, &appraisals[i])
			rowNum++
			exported++
		}

		if int64(offset+len(appraisals)) >= total || len(appraisals) == 0 {
			break
		}
	}

	if exported == 0 {
		return nil, "", ErrExportNoAppraisals
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("考核结果_%s.xlsx", cycle.Name)
	s.logger.Info("考核结果导出完成",
		zap.String("cycle_id", cycleID),
		zap.Int("rows", exported))
	return buf, filename, nil
}

func writeAppraisalRow(f *excelize.File, sheet string, rowNum int, appraisal *model.Appraisal) {
	var (
		employeeID, name, title, deptName, collegeName string
	)
	if appraisal.Faculty != nil {
		employeeID = appraisal.Faculty.EmployeeID
		name = appraisal.Faculty.Name
		title = appraisal.Faculty.Title
		if appraisal.Faculty.Department != nil {
			deptName = appraisal.Faculty.Department.Name
			if appraisal.Faculty.Department.College != nil {
				collegeName = appraisal.Faculty.Department.College.Name
			}
		}
		if collegeName == "" && appraisal.Faculty.College != nil {
			collegeName = appraisal.Faculty.College.Name
		}
	}

	values := []interface{}{
		employeeID, name, title, deptName, collegeName,
		scoreCell(appraisal.ResearchScore),
		scoreCell(appraisal.TeachingScore),
		scoreCell(appraisal.UniversityServiceScore),
		scoreCell(appraisal.CommunityServiceScore),
		scoreCell(appraisal.TotalScore),
		string(appraisal.Status),
	}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, rowNum)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

// scoreCell 未评分维度导出为空单元格而非 0
func scoreCell(p *float64) interface{} {
	if p == nil {
		return ""
	}
	return *p
}
