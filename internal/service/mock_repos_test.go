package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"faculty-appraisal/internal/model"
	"faculty-appraisal/internal/repository"
	"faculty-appraisal/pkg/apperrors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users     map[string]*model.User
	idCounter int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.idCounter++
		user.UserID = fmt.Sprintf("user-%d", m.idCounter)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmployeeID(_ context.Context, employeeID string) (*model.User, error) {
	for _, u := range m.users {
		if u.EmployeeID == employeeID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filters *repository.UserListFilters, offset, limit int) ([]model.User, int64, error) {
	var filtered []model.User
	for _, u := range m.users {
		if filters != nil {
			if filters.DepartmentID != "" && (u.DepartmentID == nil || *u.DepartmentID != filters.DepartmentID) {
				continue
			}
			if filters.Role != "" && u.Role != filters.Role {
				continue
			}
			if filters.Keyword != "" && !strings.Contains(u.Name, filters.Keyword) && !strings.Contains(u.EmployeeID, filters.Keyword) {
				continue
			}
		}
		filtered = append(filtered, *u)
	}
	total := int64(len(filtered))
	if offset >= len(filtered) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

// ── Mock CollegeRepository ──

type mockCollegeRepo struct {
	colleges  map[string]*model.College
	idCounter int
}

func newMockCollegeRepo() *mockCollegeRepo {
	return &mockCollegeRepo{colleges: make(map[string]*model.College)}
}

func (m *mockCollegeRepo) Create(_ context.Context, college *model.College) error {
	if college.CollegeID == "" {
		m.idCounter++
		college.CollegeID = fmt.Sprintf("col-%d", m.idCounter)
	}
	m.colleges[college.CollegeID] = college
	return nil
}

func (m *mockCollegeRepo) GetByID(_ context.Context, id string) (*model.College, error) {
	if c, ok := m.colleges[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCollegeRepo) GetByName(_ context.Context, name string) (*model.College, error) {
	for _, c := range m.colleges {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCollegeRepo) List(_ context.Context) ([]model.College, error) {
	var result []model.College
	for _, c := range m.colleges {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCollegeRepo) Update(_ context.Context, college *model.College) error {
	m.colleges[college.CollegeID] = college
	return nil
}

func (m *mockCollegeRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.colleges, id)
	return nil
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	departments map[string]*model.Department
	memberCount map[string]int64
	idCounter   int
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{
		departments: make(map[string]*model.Department),
		memberCount: make(map[string]int64),
	}
}

func (m *mockDepartmentRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		m.idCounter++
		dept.DepartmentID = fmt.Sprintf("dept-%d", m.idCounter)
	}
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) List(_ context.Context, collegeID string) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		if collegeID != "" && d.CollegeID != collegeID {
			continue
		}
		result = append(result, *d)
	}
	return result, nil
}

func (m *mockDepartmentRepo) Update(_ context.Context, dept *model.Department) error {
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.departments, id)
	return nil
}

func (m *mockDepartmentRepo) CountMembers(_ context.Context, departmentID string) (int64, error) {
	return m.memberCount[departmentID], nil
}

// ── Mock CycleRepository ──

type mockCycleRepo struct {
	cycles    map[string]*model.Cycle
	idCounter int
}

func newMockCycleRepo() *mockCycleRepo {
	return &mockCycleRepo{cycles: make(map[string]*model.Cycle)}
}

func (m *mockCycleRepo) Create(_ context.Context, cycle *model.Cycle) error {
	if cycle.CycleID == "" {
		m.idCounter++
		cycle.CycleID = fmt.Sprintf("cycle-%d", m.idCounter)
	}
	m.cycles[cycle.CycleID] = cycle
	return nil
}

func (m *mockCycleRepo) GetByID(_ context.Context, id string) (*model.Cycle, error) {
	if c, ok := m.cycles[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCycleRepo) GetCurrent(_ context.Context) (*model.Cycle, error) {
	for _, c := range m.cycles {
		if c.IsActive {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCycleRepo) List(_ context.Context) ([]model.Cycle, error) {
	var result []model.Cycle
	for _, c := range m.cycles {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCycleRepo) Update(_ context.Context, cycle *model.Cycle) error {
	m.cycles[cycle.CycleID] = cycle
	return nil
}

func (m *mockCycleRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.cycles, id)
	return nil
}

func (m *mockCycleRepo) ClearActive(_ context.Context) error {
	for _, c := range m.cycles {
		c.IsActive = false
	}
	return nil
}

// ── Mock GradingConfigRepository ──

type mockGradingConfigRepo struct {
	configs   map[string]*model.GradingConfig
	idCounter int
}

func newMockGradingConfigRepo() *mockGradingConfigRepo {
	return &mockGradingConfigRepo{configs: make(map[string]*model.GradingConfig)}
}

func (m *mockGradingConfigRepo) Create(_ context.Context, cfg *model.GradingConfig) error {
	if cfg.ConfigID == "" {
		m.idCounter++
		cfg.ConfigID = fmt.Sprintf("cfg-%d", m.idCounter)
	}
	m.configs[cfg.ConfigID] = cfg
	return nil
}

func (m *mockGradingConfigRepo) GetByID(_ context.Context, id string) (*model.GradingConfig, error) {
	if c, ok := m.configs[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradingConfigRepo) GetByCycle(_ context.Context, cycleID string) (*model.GradingConfig, error) {
	for _, c := range m.configs {
		if c.Scope == model.ScopeCycle && c.CycleID != nil && *c.CycleID == cycleID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradingConfigRepo) GetGlobal(_ context.Context) (*model.GradingConfig, error) {
	for _, c := range m.configs {
		if c.Scope == model.ScopeGlobal {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradingConfigRepo) List(_ context.Context) ([]model.GradingConfig, error) {
	var result []model.GradingConfig
	for _, c := range m.configs {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockGradingConfigRepo) Update(_ context.Context, cfg *model.GradingConfig) error {
	m.configs[cfg.ConfigID] = cfg
	return nil
}

func (m *mockGradingConfigRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.configs, id)
	return nil
}

// ── Mock AppraisalRepository ──

type mockAppraisalRepo struct {
	appraisals map[string]*model.Appraisal
	users      *mockUserRepo
	idCounter  int
}

func newMockAppraisalRepo(users *mockUserRepo) *mockAppraisalRepo {
	return &mockAppraisalRepo{appraisals: make(map[string]*model.Appraisal), users: users}
}

func (m *mockAppraisalRepo) Create(_ context.Context, appraisal *model.Appraisal) error {
	if appraisal.AppraisalID == "" {
		m.idCounter++
		appraisal.AppraisalID = fmt.Sprintf("appr-%d", m.idCounter)
	}
	if appraisal.Version == 0 {
		appraisal.Version = 1
	}
	appraisal.CreatedAt = time.Now()
	m.appraisals[appraisal.AppraisalID] = appraisal
	return nil
}

// hydrate 对齐真实仓储的 Preload 链：按 faculty_id 挂载教师（含其系/学院）
func (m *mockAppraisalRepo) hydrate(a *model.Appraisal) {
	if a.Faculty == nil && m.users != nil {
		if u, ok := m.users.users[a.FacultyID]; ok {
			a.Faculty = u
		}
	}
}

func (m *mockAppraisalRepo) GetByID(_ context.Context, id string) (*model.Appraisal, error) {
	if a, ok := m.appraisals[id]; ok {
		m.hydrate(a)
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAppraisalRepo) GetByFacultyAndCycle(_ context.Context, facultyID, cycleID string) (*model.Appraisal, error) {
	for _, a := range m.appraisals {
		if a.FacultyID == facultyID && a.CycleID == cycleID {
			m.hydrate(a)
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAppraisalRepo) List(_ context.Context, filters *repository.AppraisalListFilters, offset, limit int) ([]model.Appraisal, int64, error) {
	var filtered []model.Appraisal
	for _, a := range m.appraisals {
		m.hydrate(a)
		if filters != nil {
			if filters.CycleID != "" && a.CycleID != filters.CycleID {
				continue
			}
			if filters.FacultyID != "" && a.FacultyID != filters.FacultyID {
				continue
			}
			if filters.Status != "" && a.Status != filters.Status {
				continue
			}
			if filters.DepartmentID != "" {
				if a.Faculty == nil || a.Faculty.DepartmentID == nil || *a.Faculty.DepartmentID != filters.DepartmentID {
					continue
				}
			}
			if filters.CollegeID != "" {
				if a.Faculty == nil || a.Faculty.CollegeScope() != filters.CollegeID {
					continue
				}
			}
		}
		filtered = append(filtered, *a)
	}
	total := int64(len(filtered))
	if offset >= len(filtered) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

// Update 对齐真实仓储的版本谓词：版本不符的写入报乐观锁冲突
func (m *mockAppraisalRepo) Update(_ context.Context, appraisal *model.Appraisal) error {
	stored, ok := m.appraisals[appraisal.AppraisalID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != appraisal.Version {
		return apperrors.ErrOptimisticLock
	}
	appraisal.Version++
	m.appraisals[appraisal.AppraisalID] = appraisal
	return nil
}

// ── Mock EvaluationRepository ──

type mockEvaluationRepo struct {
	evals      map[string]*model.Evaluation // key: appraisalID/role
	appraisals *mockAppraisalRepo
	idCounter  int
}

func newMockEvaluationRepo(appraisals *mockAppraisalRepo) *mockEvaluationRepo {
	return &mockEvaluationRepo{
		evals:      make(map[string]*model.Evaluation),
		appraisals: appraisals,
	}
}

func evalKey(appraisalID string, role model.EvaluatorRole) string {
	return appraisalID + "/" + string(role)
}

func (m *mockEvaluationRepo) GetByAppraisalAndRole(_ context.Context, appraisalID string, role model.EvaluatorRole) (*model.Evaluation, error) {
	if e, ok := m.evals[evalKey(appraisalID, role)]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEvaluationRepo) ListByAppraisal(_ context.Context, appraisalID string) ([]model.Evaluation, error) {
	var result []model.Evaluation
	for _, e := range m.evals {
		if e.AppraisalID == appraisalID {
			result = append(result, *e)
		}
	}
	return result, nil
}

// copyEvalColumns 按列名把 src 的对应字段拷到 dst 上，对齐冲突覆盖的列范围
func copyEvalColumns(dst, src *model.Evaluation, cols []string) {
	for _, c := range cols {
		switch c {
		case "research_points":
			dst.ResearchPoints = src.ResearchPoints
		case "research_band":
			dst.ResearchBand = src.ResearchBand
		case "research_comment":
			dst.ResearchComment = src.ResearchComment
		case "teaching_points":
			dst.TeachingPoints = src.TeachingPoints
		case "teaching_band":
			dst.TeachingBand = src.TeachingBand
		case "teaching_comment":
			dst.TeachingComment = src.TeachingComment
		case "university_service_points":
			dst.UniversityServicePoints = src.UniversityServicePoints
		case "university_service_band":
			dst.UniversityServiceBand = src.UniversityServiceBand
		case "university_service_comment":
			dst.UniversityServiceComment = src.UniversityServiceComment
		case "community_service_points":
			dst.CommunityServicePoints = src.CommunityServicePoints
		case "community_service_band":
			dst.CommunityServiceBand = src.CommunityServiceBand
		case "community_service_comment":
			dst.CommunityServiceComment = src.CommunityServiceComment
		case "capability_points":
			dst.CapabilityPoints = src.CapabilityPoints
		case "capability_band":
			dst.CapabilityBand = src.CapabilityBand
		case "capability_comment":
			dst.CapabilityComment = src.CapabilityComment
		case "capability_rubric":
			dst.CapabilityRubric = src.CapabilityRubric
		}
	}
	dst.EvaluatedBy = src.EvaluatedBy
	dst.EvaluatedAt = src.EvaluatedAt
	dst.UpdatedBy = src.UpdatedBy
}

// UpsertWithAppraisal 对齐真实仓储：冲突时只覆盖 touched 列，
// 总分与考核行分量按合并后的行重算
func (m *mockEvaluationRepo) UpsertWithAppraisal(ctx context.Context, eval *model.Evaluation, touched []string, appraisal *model.Appraisal) error {
	key := evalKey(eval.AppraisalID, eval.Role)
	stored, ok := m.evals[key]
	if !ok {
		m.idCounter++
		if eval.EvaluationID == "" {
			eval.EvaluationID = fmt.Sprintf("eval-%d", m.idCounter)
		}
		cp := *eval
		stored = &cp
		m.evals[key] = stored
	} else {
		copyEvalColumns(stored, eval, touched)
	}
	stored.TotalScore = stored.ComputeTotal()
	*eval = *stored

	appraisal.ResearchScore = stored.ResearchPoints
	appraisal.TeachingScore = stored.TeachingPoints
	appraisal.UniversityServiceScore = stored.UniversityServicePoints
	appraisal.CommunityServiceScore = stored.CommunityServicePoints
	total := stored.TotalScore
	appraisal.TotalScore = &total
	return m.appraisals.Update(ctx, appraisal)
}

// ── Mock AppealRepository ──

type mockAppealRepo struct {
	appeals    map[string]*model.Appeal
	appraisals *mockAppraisalRepo
	idCounter  int
}

func newMockAppealRepo(appraisals *mockAppraisalRepo) *mockAppealRepo {
	return &mockAppealRepo{
		appeals:    make(map[string]*model.Appeal),
		appraisals: appraisals,
	}
}

func (m *mockAppealRepo) GetByID(_ context.Context, id string) (*model.Appeal, error) {
	if a, ok := m.appeals[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAppealRepo) ListByAppraisal(_ context.Context, appraisalID string) ([]model.Appeal, error) {
	var result []model.Appeal
	for _, a := range m.appeals {
		if a.AppraisalID == appraisalID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAppealRepo) CreateWithAppraisal(ctx context.Context, appeal *model.Appeal, appraisal *model.Appraisal) error {
	if appeal.AppealID == "" {
		m.idCounter++
		appeal.AppealID = fmt.Sprintf("appeal-%d", m.idCounter)
	}
	appeal.CreatedAt = time.Now()
	m.appeals[appeal.AppealID] = appeal
	return m.appraisals.Update(ctx, appraisal)
}

func (m *mockAppealRepo) UpdateWithAppraisal(ctx context.Context, appeal *model.Appeal, appraisal *model.Appraisal) error {
	if _, ok := m.appeals[appeal.AppealID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.appeals[appeal.AppealID] = appeal
	return m.appraisals.Update(ctx, appraisal)
}

// ── Mock AchievementRepository ──

type mockAchievementRepo struct {
	achievements map[string]*model.Achievement
	idCounter    int
}

func newMockAchievementRepo() *mockAchievementRepo {
	return &mockAchievementRepo{achievements: make(map[string]*model.Achievement)}
}

func (m *mockAchievementRepo) Create(_ context.Context, achievement *model.Achievement) error {
	if achievement.AchievementID == "" {
		m.idCounter++
		achievement.AchievementID = fmt.Sprintf("ach-%d", m.idCounter)
	}
	achievement.CreatedAt = time.Now()
	m.achievements[achievement.AchievementID] = achievement
	return nil
}

func (m *mockAchievementRepo) GetByID(_ context.Context, id string) (*model.Achievement, error) {
	if a, ok := m.achievements[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAchievementRepo) ListByAppraisal(_ context.Context, appraisalID string) ([]model.Achievement, error) {
	var result []model.Achievement
	for _, a := range m.achievements {
		if a.AppraisalID == appraisalID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAchievementRepo) CountByCategory(_ context.Context, appraisalID string, category model.Criterion) (int64, error) {
	var count int64
	for _, a := range m.achievements {
		if a.AppraisalID == appraisalID && a.Category == category {
			count++
		}
	}
	return count, nil
}

func (m *mockAchievementRepo) Update(_ context.Context, achievement *model.Achievement) error {
	m.achievements[achievement.AchievementID] = achievement
	return nil
}

func (m *mockAchievementRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.achievements, id)
	return nil
}

// ── 测试夹具：一套学院/系/用户的组织结构 ──

type testFixture struct {
	repo *repository.Repository

	users       *mockUserRepo
	colleges    *mockCollegeRepo
	departments *mockDepartmentRepo
	cycles      *mockCycleRepo
	configs     *mockGradingConfigRepo
	appraisals  *mockAppraisalRepo
	evals       *mockEvaluationRepo
	appeals     *mockAppealRepo
	achs        *mockAchievementRepo

	admin      *model.User
	dean       *model.User
	hod        *model.User
	instructor *model.User
	cycle      *model.Cycle
}

// newTestFixture 构造单学院单系的组织结构：
// admin / dean（挂学院）/ hod（挂系）/ instructor（挂系），
// 外加一个激活周期与一份全局计分配置（默认权重 30/30/20/20）。
func newTestFixture() *testFixture {
	f := &testFixture{
		users:       newMockUserRepo(),
		colleges:    newMockCollegeRepo(),
		departments: newMockDepartmentRepo(),
		cycles:      newMockCycleRepo(),
		configs:     newMockGradingConfigRepo(),
		achs:        newMockAchievementRepo(),
	}
	f.appraisals = newMockAppraisalRepo(f.users)
	f.evals = newMockEvaluationRepo(f.appraisals)
	f.appeals = newMockAppealRepo(f.appraisals)

	f.repo = &repository.Repository{
		User:          f.users,
		College:       f.colleges,
		Department:    f.departments,
		Cycle:         f.cycles,
		GradingConfig: f.configs,
		Appraisal:     f.appraisals,
		Evaluation:    f.evals,
		Appeal:        f.appeals,
		Achievement:   f.achs,
	}

	ctx := context.Background()

	college := &model.College{CollegeID: "col-cs", Name: "计算机学院"}
	_ = f.colleges.Create(ctx, college)
	dept := &model.Department{DepartmentID: "dept-se", Name: "软件工程系", CollegeID: college.CollegeID, College: college}
	_ = f.departments.Create(ctx, dept)

	deptID := dept.DepartmentID
	colID := college.CollegeID

	f.admin = &model.User{UserID: "u-admin", Name: "管理员", EmployeeID: "A0001", Role: model.RoleAdmin}
	f.dean = &model.User{UserID: "u-dean", Name: "王院长", EmployeeID: "D0001", Role: model.RoleDean, CollegeID: &colID, College: college}
	f.hod = &model.User{UserID: "u-hod", Name: "李主任", EmployeeID: "H0001", Role: model.RoleHOD, DepartmentID: &deptID, Department: dept}
	f.instructor = &model.User{UserID: "u-inst", Name: "张老师", EmployeeID: "T0001", Role: model.RoleInstructor, DepartmentID: &deptID, Department: dept}
	for _, u := range []*model.User{f.admin, f.dean, f.hod, f.instructor} {
		_ = f.users.Create(ctx, u)
	}

	f.cycle = &model.Cycle{CycleID: "cycle-2026", Name: "2026年度考核", IsActive: true}
	_ = f.cycles.Create(ctx, f.cycle)

	_ = f.configs.Create(ctx, &model.GradingConfig{
		ConfigID:                "cfg-global",
		Scope:                   model.ScopeGlobal,
		ResearchWeight:          30,
		TeachingWeight:          30,
		UniversityServiceWeight: 20,
		CommunityServiceWeight:  20,
		ServicePointsPerItem:    4,
		ServiceMaxPoints:        20,
		ResearchActivityPoints: model.PointsMap{
			"journal_paper":    10,
			"conference_paper": 6,
			"funded_project":   12,
			"patent":           8,
		},
	})

	return f
}

// newAppraisal 为指定教师在夹具周期内落一条考核记录
func (f *testFixture) newAppraisal(faculty *model.User, status model.AppraisalStatus) *model.Appraisal {
	appraisal := &model.Appraisal{
		FacultyID: faculty.UserID,
		CycleID:   f.cycle.CycleID,
		Status:    status,
		Faculty:   faculty,
		Cycle:     f.cycle,
	}
	_ = f.appraisals.Create(context.Background(), appraisal)
	return appraisal
}
