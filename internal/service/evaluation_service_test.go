package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/model"
	"faculty-appraisal/pkg/apperrors"
)

func setupTestEvaluationService(f *testFixture) EvaluationService {
	logger := zap.NewNop()
	gradingSvc := NewGradingConfigService(f.repo, logger)
	return NewEvaluationService(f.repo, gradingSvc, logger)
}

func intPtr(n int) *int           { return &n }
func floatPtr(v float64) *float64 { return &v }

// ── 权限解析测试 ──

func TestResolveEvaluatorAccess_Matrix(t *testing.T) {
	f := newTestFixture()
	instAppraisal := f.newAppraisal(f.instructor, model.StatusNew)
	hodAppraisal := f.newAppraisal(f.hod, model.StatusNew)

	cases := []struct {
		name      string
		actor     *model.User
		appraisal *model.Appraisal
		wantRole  model.EvaluatorRole
		wantErr   bool
	}{
		{"系主任评本系教师", f.hod, instAppraisal, model.EvaluatorHOD, false},
		{"院长评本学院系主任", f.dean, hodAppraisal, model.EvaluatorDean, false},
		{"管理员名义系主任评教师", f.admin, instAppraisal, model.EvaluatorHOD, false},
		{"管理员名义院长评系主任", f.admin, hodAppraisal, model.EvaluatorDean, false},
		{"院长不能越级评教师", f.dean, instAppraisal, "", true},
		{"系主任不能评系主任", f.hod, hodAppraisal, "", true},
		{"教师无评分权限", f.instructor, instAppraisal, "", true},
	}

	for _, c := range cases {
		role, err := ResolveEvaluatorAccess(c.actor, c.appraisal)
		if c.wantErr {
			if err == nil {
				t.Errorf("%s: 期望拒绝，实际解析出角色 %s", c.name, role)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: 期望通过，实际: %v", c.name, err)
			continue
		}
		if role != c.wantRole {
			t.Errorf("%s: 期望角色 %s，实际 %s", c.name, c.wantRole, role)
		}
	}
}

func TestResolveEvaluatorAccess_SelfEvaluation(t *testing.T) {
	f := newTestFixture()
	hodAppraisal := f.newAppraisal(f.hod, model.StatusNew)

	// 系主任名义上在自己系内，自评仍一律拒绝
	if _, err := ResolveEvaluatorAccess(f.hod, hodAppraisal); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Errorf("自评期望 Forbidden，实际: %v", err)
	}
}

func TestResolveEvaluatorAccess_CrossCollege(t *testing.T) {
	f := newTestFixture()
	ctx := context.Background()

	// 另一个学院的院长
	otherCollege := &model.College{CollegeID: "col-math", Name: "数学学院"}
	_ = f.colleges.Create(ctx, otherCollege)
	otherColID := otherCollege.CollegeID
	otherDean := &model.User{UserID: "u-dean-2", Name: "赵院长", EmployeeID: "D0002", Role: model.RoleDean, CollegeID: &otherColID, College: otherCollege}
	_ = f.users.Create(ctx, otherDean)

	hodAppraisal := f.newAppraisal(f.hod, model.StatusNew)

	if _, err := ResolveEvaluatorAccess(otherDean, hodAppraisal); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Errorf("跨学院评分期望 Forbidden，实际: %v", err)
	}
}

func TestEvaluationService_ResolveAccess(t *testing.T) {
	f := newTestFixture()
	svc := setupTestEvaluationService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusNew)

	resp, err := svc.ResolveAccess(context.Background(), f.hod.UserID, appraisal.AppraisalID)
	if err != nil {
		t.Fatalf("ResolveAccess 应成功: %v", err)
	}
	if !resp.Authorized || resp.Role != "HOD" {
		t.Errorf("期望 (authorized, HOD)，实际 (%v, %s)", resp.Authorized, resp.Role)
	}

	// 无权限按未授权响应而非错误
	resp, err = svc.ResolveAccess(context.Background(), f.instructor.UserID, appraisal.AppraisalID)
	if err != nil {
		t.Fatalf("无权限的 ResolveAccess 不应报错: %v", err)
	}
	if resp.Authorized {
		t.Error("教师不应获得评分权限")
	}
}

// ── 评分测试 ──

func TestEvaluationService_ScoreCriterion_FirstScorePromotesStatus(t *testing.T) {
	f := newTestFixture()
	svc := setupTestEvaluationService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusNew)

	resp, err := svc.ScoreCriterion(context.Background(), f.hod.UserID, appraisal.AppraisalID, &dto.ScoreCriterionRequest{
		Criterion: "university_service",
		Count:     intPtr(3),
	})
	if err != nil {
		t.Fatalf("ScoreCriterion 应成功: %v", err)
	}
	if resp.Band != "MEETS" || resp.Points != 12 {
		t.Errorf("计 3 项期望 (MEETS, 12)，实际 (%s, %v)", resp.Band, resp.Points)
	}
	if resp.Status != string(model.StatusInReview) {
		t.Errorf("首次评分应将 NEW 推进为 IN_REVIEW，实际 %s", resp.Status)
	}

	// 第二次评分不再迁移状态
	resp, err = svc.ScoreCriterion(context.Background(), f.hod.UserID, appraisal.AppraisalID, &dto.ScoreCriterionRequest{
		Criterion: "community_service",
		Count:     intPtr(2),
	})
	if err != nil {
		t.Fatalf("第二次评分应成功: %v", err)
	}
	if resp.Status != string(model.StatusInReview) {
		t.Errorf("第二次评分后状态应保持 IN_REVIEW，实际 %s", resp.Status)
	}
}

func TestEvaluationService_ScoreCriterion_Aggregation(t *testing.T) {
	f := newTestFixture()
	svc := setupTestEvaluationService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusNew)
	ctx := context.Background()

	// 科研：10+6 = 16 分；教学：85% → EXCEEDS → 24 分；
	// 校内服务：3 项 → 12 分；社会服务：2 项 → 8 分。合计 60。
	steps := []*dto.ScoreCriterionRequest{
		{Criterion: "research", Activities: []string{"journal_paper", "conference_paper"}},
		{Criterion: "teaching", Percentage: floatPtr(85)},
		{Criterion: "university_service", Count: intPtr(3)},
		{Criterion: "community_service", Count: intPtr(2)},
	}
	var last *dto.ScoreCriterionResponse
	for _, req := range steps {
		resp, err := svc.ScoreCriterion(ctx, f.hod.UserID, appraisal.AppraisalID, req)
		if err != nil {
			t.Fatalf("评分 %s 应成功: %v", req.Criterion, err)
		}
		last = resp
	}
	if last.TotalScore != 60 {
		t.Errorf("期望总分 60，实际 %v", last.TotalScore)
	}

	// 总分与分量同步回考核行
	stored, _ := f.appraisals.GetByID(ctx, appraisal.AppraisalID)
	if stored.TotalScore == nil || *stored.TotalScore != 60 {
		t.Errorf("考核行总分期望 60，实际 %v", stored.TotalScore)
	}
	if stored.TeachingScore == nil || *stored.TeachingScore != 24 {
		t.Errorf("考核行教学分期望 24，实际 %v", stored.TeachingScore)
	}
}

func TestEvaluationService_ScoreCriterion_OverwriteIdempotent(t *testing.T) {
	f := newTestFixture()
	svc := setupTestEvaluationService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusNew)
	ctx := context.Background()

	if _, err := svc.ScoreCriterion(ctx, f.hod.UserID, appraisal.AppraisalID, &dto.ScoreCriterionRequest{
		Criterion: "teaching", Percentage: floatPtr(92),
	}); err != nil {
		t.Fatalf("首次评分应成功: %v", err)
	}

	// 同维度再次评分为覆盖写，绝不产生第二行
	resp, err := svc.ScoreCriterion(ctx, f.hod.UserID, appraisal.AppraisalID, &dto.ScoreCriterionRequest{
		Criterion: "teaching", Percentage: floatPtr(75),
	})
	if err != nil {
		t.Fatalf("覆盖评分应成功: %v", err)
	}
	if resp.Band != "MEETS" || resp.Points != 18 {
		t.Errorf("覆盖后期望 (MEETS, 18)，实际 (%s, %v)", resp.Band, resp.Points)
	}

	evals, _ := f.evals.ListByAppraisal(ctx, appraisal.AppraisalID)
	if len(evals) != 1 {
		t.Fatalf("同 (考核, 角色) 期望仅 1 条评价记录，实际 %d 条", len(evals))
	}
	if evals[0].TeachingPoints == nil || *evals[0].TeachingPoints != 18 {
		t.Errorf("覆盖后教学分期望 18，实际 %v", evals[0].TeachingPoints)
	}
}

func TestEvaluation_ConcurrentCriterionWritesPreserved(t *testing.T) {
	// 两个会话对同一 (考核, 角色) 各评一个维度：后写者只覆盖自己触达的列，
	// 先写者的维度不得被清空，总分按合并后的行重算
	f := newTestFixture()
	svc := setupTestEvaluationService(f)
	ctx := context.Background()
	appraisal := f.newAppraisal(f.instructor, model.StatusInReview)

	// 会话一已落库教学质量：85% → EXCEEDS → 24
	if _, err := svc.ScoreCriterion(ctx, f.hod.UserID, appraisal.AppraisalID, &dto.ScoreCriterionRequest{
		Criterion:  "teaching",
		Percentage: floatPtr(85),
	}); err != nil {
		t.Fatalf("教学评分失败: %v", err)
	}

	// 会话二持有一份未见教学分的过期合并结果，仅触达科研列写回
	band := model.BandPartial
	staleEval := &model.Evaluation{
		AppraisalID:    appraisal.AppraisalID,
		Role:           model.EvaluatorHOD,
		ResearchPoints: floatPtr(16),
		ResearchBand:   &band,
		EvaluatedBy:    f.hod.UserID,
	}
	loaded, err := f.repo.Appraisal.GetByID(ctx, appraisal.AppraisalID)
	if err != nil {
		t.Fatalf("加载考核失败: %v", err)
	}
	if err := f.repo.Evaluation.UpsertWithAppraisal(ctx, staleEval, model.CriterionResearch.ScoreColumns(), loaded); err != nil {
		t.Fatalf("科研写回失败: %v", err)
	}

	merged, err := f.repo.Evaluation.GetByAppraisalAndRole(ctx, appraisal.AppraisalID, model.EvaluatorHOD)
	if err != nil {
		t.Fatalf("读取评价记录失败: %v", err)
	}
	if merged.TeachingPoints == nil || *merged.TeachingPoints != 24 {
		t.Fatalf("教学分被并发写清空: %v", merged.TeachingPoints)
	}
	if merged.ResearchPoints == nil || *merged.ResearchPoints != 16 {
		t.Fatalf("科研分未落库: %v", merged.ResearchPoints)
	}
	if merged.TotalScore != 40 {
		t.Errorf("合并后总分期望 40，实际 %v", merged.TotalScore)
	}
	stored, _ := f.repo.Appraisal.GetByID(ctx, appraisal.AppraisalID)
	if stored.TotalScore == nil || *stored.TotalScore != 40 {
		t.Errorf("考核行总分期望 40，实际 %v", stored.TotalScore)
	}
}

func TestEvaluationService_ScoreCriterion_CapabilitiesExcludedFromTotal(t *testing.T) {
	f := newTestFixture()
	svc := setupTestEvaluationService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusNew)
	ctx := context.Background()

	if _, err := svc.ScoreCriterion(ctx, f.hod.UserID, appraisal.AppraisalID, &dto.ScoreCriterionRequest{
		Criterion: "university_service", Count: intPtr(5),
	}); err != nil {
		t.Fatalf("计次评分应成功: %v", err)
	}

	resp, err := svc.ScoreCriterion(ctx, f.hod.UserID, appraisal.AppraisalID, &dto.ScoreCriterionRequest{
		Criterion: "capabilities",
		CapabilityPicks: &dto.CapabilityPicksRequest{
			Communication:  "HIGH",
			Teamwork:       "EXCEEDS",
			Responsibility: "MEETS",
			Innovation:     "PARTIAL",
			Professional:   "NEEDS",
		},
	})
	if err != nil {
		t.Fatalf("能力素养评分应成功: %v", err)
	}
	if resp.Points != 60 || resp.Band != "MEETS" {
		t.Errorf("五项选档期望 (60, MEETS)，实际 (%v, %s)", resp.Points, resp.Band)
	}
	// 能力素养不计入总分：总分仍只有校内服务的 20 分
	if resp.TotalScore != 20 {
		t.Errorf("能力素养不应计入总分，期望 20，实际 %v", resp.TotalScore)
	}

	eval, _ := f.evals.GetByAppraisalAndRole(ctx, appraisal.AppraisalID, model.EvaluatorHOD)
	if eval.CapabilityRubric == nil {
		t.Fatal("能力素养细则应落库")
	}
	if eval.CapabilityRubric.Total != 60 || eval.CapabilityRubric.OverallBand != model.BandMeets {
		t.Errorf("细则期望 (60, MEETS)，实际 (%v, %s)", eval.CapabilityRubric.Total, eval.CapabilityRubric.OverallBand)
	}
}

func TestEvaluationService_ScoreCriterion_Forbidden(t *testing.T) {
	f := newTestFixture()
	svc := setupTestEvaluationService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusNew)

	_, err := svc.ScoreCriterion(context.Background(), f.instructor.UserID, appraisal.AppraisalID, &dto.ScoreCriterionRequest{
		Criterion: "teaching", Percentage: floatPtr(90),
	})
	if !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Errorf("教师评分期望 Forbidden，实际: %v", err)
	}
}

func TestEvaluationService_ScoreCriterion_NotScorable(t *testing.T) {
	f := newTestFixture()
	svc := setupTestEvaluationService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusScoresSent)

	_, err := svc.ScoreCriterion(context.Background(), f.hod.UserID, appraisal.AppraisalID, &dto.ScoreCriterionRequest{
		Criterion: "teaching", Percentage: floatPtr(90),
	})
	if !apperrors.IsKind(err, apperrors.KindInvalidState) {
		t.Errorf("SCORES_SENT 状态评分期望 InvalidState，实际: %v", err)
	}
}

func TestEvaluationService_ScoreCriterion_ConfigMissing(t *testing.T) {
	f := newTestFixture()
	svc := setupTestEvaluationService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusNew)

	// 删掉全局配置且周期无专属配置：评分必须失败而非静默兜底
	_ = f.configs.Delete(context.Background(), "cfg-global", f.admin.UserID)

	_, err := svc.ScoreCriterion(context.Background(), f.hod.UserID, appraisal.AppraisalID, &dto.ScoreCriterionRequest{
		Criterion: "teaching", Percentage: floatPtr(90),
	})
	if !apperrors.IsKind(err, apperrors.KindConfigMissing) {
		t.Errorf("无配置评分期望 ConfigMissing，实际: %v", err)
	}
}

func TestEvaluationService_ScoreCriterion_MissingObservation(t *testing.T) {
	f := newTestFixture()
	svc := setupTestEvaluationService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusNew)
	ctx := context.Background()

	cases := []*dto.ScoreCriterionRequest{
		{Criterion: "teaching"},                        // 缺 percentage
		{Criterion: "university_service"},              // 缺 count
		{Criterion: "research"},                        // 缺 activities
		{Criterion: "capabilities"},                    // 缺选档
		{Criterion: "unknown", Percentage: floatPtr(1)}, // 未知维度
	}
	for _, req := range cases {
		if _, err := svc.ScoreCriterion(ctx, f.hod.UserID, appraisal.AppraisalID, req); !apperrors.IsKind(err, apperrors.KindInvalidInput) {
			t.Errorf("维度 %s 期望 InvalidInput，实际: %v", req.Criterion, err)
		}
	}
}

// ── 查询测试 ──

func TestEvaluationService_ListByAppraisal_Access(t *testing.T) {
	f := newTestFixture()
	svc := setupTestEvaluationService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusNew)
	ctx := context.Background()

	if _, err := svc.ScoreCriterion(ctx, f.hod.UserID, appraisal.AppraisalID, &dto.ScoreCriterionRequest{
		Criterion: "teaching", Percentage: floatPtr(85),
	}); err != nil {
		t.Fatalf("评分应成功: %v", err)
	}

	// 本人、评价人、管理员可读
	for _, actor := range []*model.User{f.instructor, f.hod, f.admin} {
		evals, err := svc.ListByAppraisal(ctx, actor.UserID, appraisal.AppraisalID)
		if err != nil {
			t.Errorf("%s 查询评价记录应成功: %v", actor.Name, err)
			continue
		}
		if len(evals) != 1 {
			t.Errorf("%s 期望 1 条记录，实际 %d 条", actor.Name, len(evals))
		}
	}

	// 无关教师不可读
	deptID := *f.instructor.DepartmentID
	outsider := &model.User{UserID: "u-other", Name: "其他教师", Role: model.RoleInstructor, DepartmentID: &deptID}
	_ = f.users.Create(ctx, outsider)
	if _, err := svc.ListByAppraisal(ctx, outsider.UserID, appraisal.AppraisalID); !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Errorf("无关教师期望 Forbidden，实际: %v", err)
	}
}

func TestEvaluationService_SuggestObservation(t *testing.T) {
	f := newTestFixture()
	svc := setupTestEvaluationService(f)
	appraisal := f.newAppraisal(f.instructor, model.StatusNew)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = f.achs.Create(ctx, &model.Achievement{
			AppraisalID: appraisal.AppraisalID,
			Category:    model.CriterionUniversityService,
			Title:       "校内服务项目",
		})
	}
	_ = f.achs.Create(ctx, &model.Achievement{
		AppraisalID: appraisal.AppraisalID,
		Category:    model.CriterionResearch,
		Title:       "期刊论文",
	})

	resp, err := svc.SuggestObservation(ctx, appraisal.AppraisalID, model.CriterionUniversityService)
	if err != nil {
		t.Fatalf("SuggestObservation 应成功: %v", err)
	}
	if resp.Count != 3 {
		t.Errorf("期望建议观测值 3，实际 %d", resp.Count)
	}
}
