package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/model"
	"faculty-appraisal/pkg/apperrors"
)

func setupTestAppraisalService(f *testFixture) AppraisalService {
	return NewAppraisalService(f.repo, zap.NewNop())
}

// ── Create 测试 ──

func TestAppraisalService_Create_Success(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppraisalService(f)

	resp, err := svc.Create(context.Background(), f.instructor.UserID, &dto.CreateAppraisalRequest{
		CycleID: f.cycle.CycleID,
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Status != string(model.StatusNew) {
		t.Errorf("新建考核期望状态 NEW，实际 %s", resp.Status)
	}
}

func TestAppraisalService_Create_DuplicateInCycle(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppraisalService(f)
	ctx := context.Background()

	if _, err := svc.Create(ctx, f.instructor.UserID, &dto.CreateAppraisalRequest{CycleID: f.cycle.CycleID}); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}
	// 每位教师每个周期至多一条
	_, err := svc.Create(ctx, f.instructor.UserID, &dto.CreateAppraisalRequest{CycleID: f.cycle.CycleID})
	if !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Errorf("重复创建期望 InvalidState，实际: %v", err)
	}
}

func TestAppraisalService_Create_AdminExcluded(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppraisalService(f)

	_, err := svc.Create(context.Background(), f.admin.UserID, &dto.CreateAppraisalRequest{CycleID: f.cycle.CycleID})
	if !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Errorf("管理员发起考核期望 Forbidden，实际: %v", err)
	}
}

func TestAppraisalService_Create_CycleNotFound(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppraisalService(f)

	_, err := svc.Create(context.Background(), f.instructor.UserID, &dto.CreateAppraisalRequest{CycleID: "no-such-cycle"})
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Errorf("周期不存在期望 NotFound，实际: %v", err)
	}
}

// ── 读权限测试 ──

func TestAppraisalService_GetByID_Access(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppraisalService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusNew)
	ctx := context.Background()

	for _, actor := range []*model.User{f.instructor, f.hod, f.admin} {
		if _, err := svc.GetByID(ctx, actor.UserID, appraisal.AppraisalID); err != nil {
			t.Errorf("%s 查看考核应成功: %v", actor.Name, err)
		}
	}

	// 院长不能越级查看教师考核（无法解析出评分角色）
	if _, err := svc.GetByID(ctx, f.dean.UserID, appraisal.AppraisalID); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Errorf("院长查看教师考核期望 Forbidden，实际: %v", err)
	}
}

// ── List 测试 ──

func TestAppraisalService_List_RoleScope(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppraisalService(f)
	ctx := context.Background()

	f.newAppraisal(f.instructor, model.StatusNew)
	f.newAppraisal(f.hod, model.StatusNew)

	req := &dto.AppraisalListRequest{}
	req.Page = 1
	req.PageSize = 20

	// 教师仅看本人
	result, total, err := svc.List(ctx, f.instructor.UserID, req)
	if err != nil {
		t.Fatalf("教师 List 应成功: %v", err)
	}
	if total != 1 || len(result) != 1 {
		t.Errorf("教师期望仅见本人 1 条，实际 %d 条", total)
	}

	// 系主任看本系（教师 + 本系系主任本人的考核）
	_, total, err = svc.List(ctx, f.hod.UserID, req)
	if err != nil {
		t.Fatalf("系主任 List 应成功: %v", err)
	}
	if total != 2 {
		t.Errorf("系主任期望本系 2 条，实际 %d 条", total)
	}

	// 管理员不受限
	_, total, err = svc.List(ctx, f.admin.UserID, req)
	if err != nil {
		t.Fatalf("管理员 List 应成功: %v", err)
	}
	if total != 2 {
		t.Errorf("管理员期望全部 2 条，实际 %d 条", total)
	}
}

// ── 状态机测试 ──

func TestAppraisalService_SendScores_RequiresEvaluation(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppraisalService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusInReview)

	// 尚无评价记录不允许发送
	_, err := svc.SendScores(context.Background(), f.hod.UserID, appraisal.AppraisalID)
	if !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Errorf("无评价记录发送成绩期望 InvalidState，实际: %v", err)
	}
}

func TestAppraisalService_SendScores_FromNew(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppraisalService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusNew)

	// 未评分的考核也可直接发送（未计分的成绩单），无需先有评价记录
	sent, err := svc.SendScores(context.Background(), f.hod.UserID, appraisal.AppraisalID)
	if err != nil {
		t.Fatalf("NEW 状态发送成绩应成功: %v", err)
	}
	if sent.Status != string(model.StatusScoresSent) {
		t.Errorf("期望 SCORES_SENT，实际 %s", sent.Status)
	}
}

func TestAppraisalService_SendScores_WrongStatus(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppraisalService(f)
	ctx := context.Background()

	for _, status := range []model.AppraisalStatus{model.StatusScoresSent, model.StatusReturned, model.StatusComplete} {
		appraisal := f.newAppraisal(f.instructor, status)
		_, err := svc.SendScores(ctx, f.hod.UserID, appraisal.AppraisalID)
		if !apperrors.IsKind(err, apperrors.KindInvalidState) {
			t.Errorf("%s 状态发送成绩期望 InvalidState，实际: %v", status, err)
		}
		delete(f.appraisals.appraisals, appraisal.AppraisalID)
	}
}

func TestAppraisal_StaleWriteRejected(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppraisalService(f)
	ctx := context.Background()
	appraisal := f.newAppraisal(f.instructor, model.StatusScoresSent)

	// 两个会话各自加载同一考核
	stale, err := f.repo.Appraisal.GetByID(ctx, appraisal.AppraisalID)
	if err != nil {
		t.Fatalf("加载考核失败: %v", err)
	}

	// 会话一：教师确认成绩，版本前进
	if _, err := svc.Approve(ctx, f.instructor.UserID, appraisal.AppraisalID); err != nil {
		t.Fatalf("确认成绩失败: %v", err)
	}

	// 会话二：基于旧版本的写回必须报乐观锁冲突
	stale.Status = model.StatusReturned
	if err := f.repo.Appraisal.Update(ctx, stale); !errors.Is(err, apperrors.ErrOptimisticLock) {
		t.Errorf("过期版本写回期望乐观锁冲突，实际: %v", err)
	}
}

func TestAppraisalService_Approve_Guards(t *testing.T) {
	f := newTestFixture()
	svc := setupTestAppraisalService(f)
	ctx := context.Background()

	// 非 SCORES_SENT 不可确认
	inReview := f.newAppraisal(f.instructor, model.StatusInReview)
	if _, err := svc.Approve(ctx, f.instructor.UserID, inReview.AppraisalID); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Errorf("IN_REVIEW 确认成绩期望 InvalidState，实际: %v", err)
	}

	// 仅本人可确认
	sent := f.newAppraisal(f.hod, model.StatusScoresSent)
	if _, err := svc.Approve(ctx, f.instructor.UserID, sent.AppraisalID); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Errorf("非本人确认成绩期望 Forbidden，实际: %v", err)
	}
}

// ── 完整生命周期（含申诉支线） ──

func TestAppraisal_FullLifecycle(t *testing.T) {
	f := newTestFixture()
	logger := zap.NewNop()
	appraisalSvc := NewAppraisalService(f.repo, logger)
	evalSvc := setupTestEvaluationService(f)
	appealSvc := NewAppealService(f.repo, logger)
	ctx := context.Background()

	// 1. 教师发起考核：NEW
	created, err := appraisalSvc.Create(ctx, f.instructor.UserID, &dto.CreateAppraisalRequest{CycleID: f.cycle.CycleID})
	if err != nil {
		t.Fatalf("创建考核失败: %v", err)
	}
	appraisalID := created.ID

	// 2. 提交自评材料（不改状态）
	submitted, err := appraisalSvc.Submit(ctx, f.instructor.UserID, appraisalID)
	if err != nil {
		t.Fatalf("提交自评失败: %v", err)
	}
	if submitted.Status != string(model.StatusNew) {
		t.Errorf("提交自评不应迁移状态，实际 %s", submitted.Status)
	}

	// 3. 系主任首次评分：NEW → IN_REVIEW
	if _, err := evalSvc.ScoreCriterion(ctx, f.hod.UserID, appraisalID, &dto.ScoreCriterionRequest{
		Criterion: "teaching", Percentage: floatPtr(88),
	}); err != nil {
		t.Fatalf("评分失败: %v", err)
	}

	// 4. 发送成绩：IN_REVIEW → SCORES_SENT
	sent, err := appraisalSvc.SendScores(ctx, f.hod.UserID, appraisalID)
	if err != nil {
		t.Fatalf("发送成绩失败: %v", err)
	}
	if sent.Status != string(model.StatusScoresSent) {
		t.Errorf("发送后期望 SCORES_SENT，实际 %s", sent.Status)
	}

	// 5. 教师申诉：SCORES_SENT → RETURNED
	appeal, err := appealSvc.Raise(ctx, f.instructor.UserID, appraisalID, &dto.RaiseAppealRequest{
		Message: "教学质量分数与实际评教结果不符",
	})
	if err != nil {
		t.Fatalf("发起申诉失败: %v", err)
	}
	stored, _ := f.appraisals.GetByID(ctx, appraisalID)
	if stored.Status != model.StatusReturned {
		t.Errorf("申诉后期望 RETURNED，实际 %s", stored.Status)
	}

	// 6. 退回状态允许重评
	if _, err := evalSvc.ScoreCriterion(ctx, f.hod.UserID, appraisalID, &dto.ScoreCriterionRequest{
		Criterion: "teaching", Percentage: floatPtr(92),
	}); err != nil {
		t.Fatalf("退回后重评失败: %v", err)
	}

	// 7. 裁决申诉：RETURNED → SCORES_SENT
	resolved, err := appealSvc.Resolve(ctx, f.hod.UserID, appeal.ID, &dto.ResolveAppealRequest{
		ResolutionNote: "已按最新评教结果重评",
	})
	if err != nil {
		t.Fatalf("裁决申诉失败: %v", err)
	}
	if resolved.ResolvedAt == "" {
		t.Error("裁决后应记录裁决时间")
	}
	stored, _ = f.appraisals.GetByID(ctx, appraisalID)
	if stored.Status != model.StatusScoresSent {
		t.Errorf("裁决后期望 SCORES_SENT，实际 %s", stored.Status)
	}

	// 8. 教师确认成绩：SCORES_SENT → COMPLETE（终态）
	final, err := appraisalSvc.Approve(ctx, f.instructor.UserID, appraisalID)
	if err != nil {
		t.Fatalf("确认成绩失败: %v", err)
	}
	if final.Status != string(model.StatusComplete) {
		t.Errorf("确认后期望 COMPLETE，实际 %s", final.Status)
	}

	// 终态后一切写操作关闭
	if _, err := evalSvc.ScoreCriterion(ctx, f.hod.UserID, appraisalID, &dto.ScoreCriterionRequest{
		Criterion: "teaching", Percentage: floatPtr(95),
	}); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Errorf("终态评分期望 InvalidState，实际: %v", err)
	}
	if _, err := appealSvc.Raise(ctx, f.instructor.UserID, appraisalID, &dto.RaiseAppealRequest{
		Message: "再次申诉应被拒绝",
	}); !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Errorf("终态申诉期望 InvalidState，实际: %v", err)
	}
}
