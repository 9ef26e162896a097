package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/model"
	"faculty-appraisal/pkg/apperrors"
)

func setupTestAppealService(f *testFixture) AppealService {
	return NewAppealService(f.repo, zap.NewNop())
}

// ── Raise 测试 ──

func TestAppealService_Raise_Success(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppealService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusScoresSent)
	ctx := context.Background()

	resp, err := svc.Raise(ctx, f.instructor.UserID, appraisal.AppraisalID, &dto.RaiseAppealRequest{
		Message: "对教学质量评分有异议",
	})
	if err != nil {
		t.Fatalf("Raise 应成功: %v", err)
	}
	if resp.Message != "对教学质量评分有异议" {
		t.Errorf("申诉理由未保留，实际: %s", resp.Message)
	}
	if resp.ResolvedAt != "" {
		t.Error("新申诉不应带裁决时间")
	}

	// 申诉与状态迁移同事务落库
	stored, _ := f.appraisals.GetByID(ctx, appraisal.AppraisalID)
	if stored.Status != model.StatusReturned {
		t.Errorf("申诉后考核期望 RETURNED，实际 %s", stored.Status)
	}
}

func TestAppealService_Raise_OnlyOwner(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppealService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusScoresSent)

	_, err := svc.Raise(context.Background(), f.hod.UserID, appraisal.AppraisalID, &dto.RaiseAppealRequest{
		Message: "系主任代为申诉应被拒绝",
	})
	if !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Errorf("非本人申诉期望 Forbidden，实际: %v", err)
	}
}

func TestAppealService_Raise_WrongStatus(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppealService(f)
	ctx := context.Background()

	for _, status := range []model.AppraisalStatus{
		model.StatusNew, model.StatusInReview, model.StatusReturned, model.StatusComplete,
	} {
		appraisal := f.newAppraisal(f.instructor, status)
		_, err := svc.Raise(ctx, f.instructor.UserID, appraisal.AppraisalID, &dto.RaiseAppealRequest{
			Message: "状态守卫测试",
		})
		if !apperrors.IsKind(err, apperrors.KindInvalidState) {
			t.Errorf("状态 %s 申诉期望 InvalidState，实际: %v", status, err)
		}
		// 夹具限制每周期一条，逐个清掉
		delete(f.appraisals.appraisals, appraisal.AppraisalID)
	}
}

// ── Resolve 测试 ──

func TestAppealService_Resolve_Success(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppealService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusScoresSent)
	ctx := context.Background()

	appeal, err := svc.Raise(ctx, f.instructor.UserID, appraisal.AppraisalID, &dto.RaiseAppealRequest{
		Message: "对评分有异议",
	})
	if err != nil {
		t.Fatalf("Raise 应成功: %v", err)
	}

	resp, err := svc.Resolve(ctx, f.hod.UserID, appeal.ID, &dto.ResolveAppealRequest{
		ResolutionNote: "维持原评分",
	})
	if err != nil {
		t.Fatalf("Resolve 应成功: %v", err)
	}
	if resp.ResolutionNote != "维持原评分" || resp.ResolvedBy != f.hod.UserID {
		t.Errorf("裁决信息不完整: note=%s by=%s", resp.ResolutionNote, resp.ResolvedBy)
	}

	stored, _ := f.appraisals.GetByID(ctx, appraisal.AppraisalID)
	if stored.Status != model.StatusScoresSent {
		t.Errorf("裁决后考核期望回到 SCORES_SENT，实际 %s", stored.Status)
	}
}

func TestAppealService_Resolve_AlreadyResolved(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppealService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusScoresSent)
	ctx := context.Background()

	appeal, _ := svc.Raise(ctx, f.instructor.UserID, appraisal.AppraisalID, &dto.RaiseAppealRequest{Message: "对评分有异议"})
	if _, err := svc.Resolve(ctx, f.hod.UserID, appeal.ID, &dto.ResolveAppealRequest{}); err != nil {
		t.Fatalf("首次裁决应成功: %v", err)
	}

	// 重复裁决
	_, err := svc.Resolve(ctx, f.hod.UserID, appeal.ID, &dto.ResolveAppealRequest{})
	if !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Errorf("重复裁决期望 InvalidState，实际: %v", err)
	}
}

func TestAppealService_Resolve_RequiresEvaluatorRole(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppealService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusScoresSent)
	ctx := context.Background()

	appeal, _ := svc.Raise(ctx, f.instructor.UserID, appraisal.AppraisalID, &dto.RaiseAppealRequest{Message: "对评分有异议"})

	// 本人不能裁决自己的申诉
	if _, err := svc.Resolve(ctx, f.instructor.UserID, appeal.ID, &dto.ResolveAppealRequest{}); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Errorf("本人裁决期望 Forbidden，实际: %v", err)
	}
	// 院长对教师考核解析不出评分角色
	if _, err := svc.Resolve(ctx, f.dean.UserID, appeal.ID, &dto.ResolveAppealRequest{}); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Errorf("院长越级裁决期望 Forbidden，实际: %v", err)
	}
	// 管理员经名义角色可裁决
	if _, err := svc.Resolve(ctx, f.admin.UserID, appeal.ID, &dto.ResolveAppealRequest{ResolutionNote: "管理员裁决"}); err != nil {
		t.Errorf("管理员裁决应成功: %v", err)
	}
}

// ── ListByAppraisal 测试 ──

func TestAppealService_ListByAppraisal(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppealService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusScoresSent)
	ctx := context.Background()

	if _, err := svc.Raise(ctx, f.instructor.UserID, appraisal.AppraisalID, &dto.RaiseAppealRequest{Message: "对评分有异议"}); err != nil {
		t.Fatalf("Raise 应成功: %v", err)
	}

	appeals, err := svc.ListByAppraisal(ctx, f.hod.UserID, appraisal.AppraisalID)
	if err != nil {
		t.Fatalf("评价人查询申诉应成功: %v", err)
	}
	if len(appeals) != 1 {
		t.Errorf("期望 1 条申诉，实际 %d 条", len(appeals))
	}

	// 无关角色不可读
	if _, err := svc.ListByAppraisal(ctx, f.dean.UserID, appraisal.AppraisalID); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Errorf("无关角色查询期望 Forbidden，实际: %v", err)
	}
}
