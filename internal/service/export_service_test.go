package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"faculty-appraisal/internal/model"
)

func setupTestExportService(f *testFixture) ExportService {
	return NewExportService(f.repo, zap.NewNop())
}

func TestExportService_ExportCycleResults(t *testing.T) {
	f := newTestFixture()
	svc := setupTestExportService(f)
	ctx := context.Background()

	appraisal := f.newAppraisal(f.instructor, model.StatusScoresSent)
	appraisal.ResearchScore = floatPtr(16)
	appraisal.TeachingScore = floatPtr(24)
	appraisal.TotalScore = floatPtr(40)

	buf, filename, err := svc.ExportCycleResults(ctx, f.cycle.CycleID)
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if filename != "考核结果_2026年度考核.xlsx" {
		t.Errorf("文件名不符，实际 %s", filename)
	}

	// 导出内容可回读
	wb, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出文件应可解析: %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("考核结果")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("期望表头+1 行数据，实际 %d 行", len(rows))
	}
	if rows[0][0] != "工号" || rows[0][10] != "状态" {
		t.Errorf("表头不符: %v", rows[0])
	}
	if rows[1][0] != "T0001" || rows[1][1] != "张老师" {
		t.Errorf("数据行不符: %v", rows[1])
	}
	// 未评分维度导出为空而非 0
	if len(rows[1]) > 7 && rows[1][7] != "" {
		t.Errorf("未评分维度应为空单元格，实际 %q", rows[1][7])
	}
}

func TestExportService_ExportCycleResults_Empty(t *testing.T) {
	f := newTestFixture()
	svc := setupTestExportService(f)

	_, _, err := svc.ExportCycleResults(context.Background(), f.cycle.CycleID)
	if !errors.Is(err, ErrExportNoAppraisals) {
		t.Errorf("空周期导出期望 ErrExportNoAppraisals，实际: %v", err)
	}
}

func TestExportService_ExportCycleResults_CycleNotFound(t *testing.T) {
	f := newTestFixture()
	svc := setupTestExportService(f)

	_, _, err := svc.ExportCycleResults(context.Background(), "no-such-cycle")
	if !errors.Is(err, ErrCycleNotFound) {
		t.Errorf("周期不存在期望 ErrCycleNotFound，实际: %v", err)
	}
}
