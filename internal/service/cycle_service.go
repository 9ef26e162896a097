package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"faculty-appraisal/internal/dto"
	"faculty-appraisal/internal/model"
	"faculty-appraisal/internal/repository"
)

// ── 考核周期模块业务错误 ──

var (
	ErrCycleNotFound   = errors.New("考核周期不存在")
	ErrNoCurrentCycle  = errors.New("当前没有启用的考核周期")
	ErrCycleBadDates   = errors.New("周期结束日期必须晚于开始日期")
	ErrCycleDateFormat = errors.New("日期格式错误，应为 YYYY-MM-DD")
)

// CycleService 考核周期业务接口。
// Activate 保证全局至多一个启用周期：先清空再置位，同一事务内完成。
type CycleService interface {
	Create(ctx context.Context, req *dto.CreateCycleRequest, callerID string) (*dto.CycleResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CycleResponse, error)
	GetCurrent(ctx context.Context) (*dto.CycleResponse, error)
	List(ctx context.Context) ([]dto.CycleResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCycleRequest, callerID string) (*dto.CycleResponse, error)
	Activate(ctx context.Context, id string, callerID string) (*dto.CycleResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type cycleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCycleService 创建 CycleService 实例
func NewCycleService(repo *repository.Repository, logger *zap.Logger) CycleService {
	return &cycleService{repo: repo, logger: logger}
}

func (s *cycleService) Create(ctx context.Context, req *dto.CreateCycleRequest, callerID string) (*dto.CycleResponse, error) {
	start, end, err := parseCycleDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	cycle := &model.Cycle{
		Name:         req.Name,
		AcademicYear: req.AcademicYear,
		StartDate:    start,
		EndDate:      end,
	}
	cycle.CreatedBy = &callerID

	if err := s.repo.Cycle.Create(ctx, cycle); err != nil {
		s.logger.Error("创建考核周期失败", zap.Error(err))
		return nil, err
	}
	return toCycleResponse(cycle), nil
}

func (s *cycleService) GetByID(ctx context.Context, id string) (*dto.CycleResponse, error) {
	cycle, err := s.repo.Cycle.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}
	return toCycleResponse(cycle), nil
}

func (s *cycleService) GetCurrent(ctx context.Context) (*dto.CycleResponse, error) {
	cycle, err := s.repo.Cycle.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCurrentCycle
		}
		return nil, err
	}
	return toCycleResponse(cycle), nil
}

func (s *cycleService) List(ctx context.Context) ([]dto.CycleResponse, error) {
	cycles, err := s.repo.Cycle.List(ctx)
	if err != nil {
		s.logger.Error("列出考核周期失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.CycleResponse, 0, len(cycles))
	for i := range cycles {
		result = append(result, *toCycleResponse(&cycles[i]))
	}
	return result, nil
}

func (s *cycleService) Update(ctx context.Context, id string, req *dto.UpdateCycleRequest, callerID string) (*dto.CycleResponse, error) {
	cycle, err := s.repo.Cycle.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		cycle.Name = *req.Name
	}
	if req.AcademicYear != nil {
		cycle.AcademicYear = *req.AcademicYear
	}
	if req.StartDate != nil {
		start, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, ErrCycleDateFormat
		}
		cycle.StartDate = start
	}
	if req.EndDate != nil {
		end, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, ErrCycleDateFormat
		}
		cycle.EndDate = end
	}
	if !cycle.EndDate.After(cycle.StartDate) {
		return nil, ErrCycleBadDates
	}
	cycle.UpdatedBy = &callerID

	if err := s.repo.Cycle.Update(ctx, cycle); err != nil {
		s.logger.Error("更新考核周期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCycleResponse(cycle), nil
}

// Activate 启用指定周期并停用其余所有周期
func (s *cycleService) Activate(ctx context.Context, id string, callerID string) (*dto.CycleResponse, error) {
	cycle, err := s.repo.Cycle.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}

	if err := s.repo.Cycle.ClearActive(ctx); err != nil {
		s.logger.Error("停用历史周期失败", zap.Error(err))
		return nil, err
	}

	cycle.IsActive = true
	cycle.UpdatedBy = &callerID
	if err := s.repo.Cycle.Update(ctx, cycle); err != nil {
		s.logger.Error("启用考核周期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("考核周期已启用", zap.String("cycle_id", id), zap.String("name", cycle.Name))
	return toCycleResponse(cycle), nil
}

func (s *cycleService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Cycle.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCycleNotFound
		}
		return err
	}

	if err := s.repo.Cycle.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除考核周期失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func parseCycleDates(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrCycleDateFormat
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrCycleDateFormat
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, ErrCycleBadDates
	}
	return start, end, nil
}
