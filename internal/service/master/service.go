package master

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/awtadhr/payroll-backend-go/internal/domain/master/branch"
	"github.com/awtadhr/payroll-backend-go/internal/domain/master/designation"
	"github.com/awtadhr/payroll-backend-go/internal/domain/master/ordered"
	"github.com/awtadhr/payroll-backend-go/internal/domain/master/section"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/cache"
	"github.com/awtadhr/payroll-backend-go/internal/pkg/events"
	"github.com/awtadhr/payroll-backend-go/internal/repository/postgresql"
)

const (
	cacheKeyDesignations = "master:designations"
	cacheKeySections     = "master:payroll_sections"
	cacheKeyBranches     = "master:branches"
)

type MasterService interface {
	// Designation operations
	CreateDesignation(ctx context.Context, req designation.CreateDesignationRequest) (designation.DesignationResponse, error)
	GetDesignation(ctx context.Context, id string) (designation.DesignationResponse, error)
	ListDesignations(ctx context.Context) ([]designation.DesignationResponse, error)
	UpdateDesignation(ctx context.Context, req designation.UpdateDesignationRequest) error
	DeleteDesignation(ctx context.Context, id string) error

	// Payroll section operations
	CreateSection(ctx context.Context, req section.CreateSectionRequest) (section.SectionResponse, error)
	GetSection(ctx context.Context, id string) (section.SectionResponse, error)
	ListSections(ctx context.Context) ([]section.SectionResponse, error)
	UpdateSection(ctx context.Context, req section.UpdateSectionRequest) error
	DeleteSection(ctx context.Context, id string) error

	// Branch operations
	CreateBranch(ctx context.Context, req branch.CreateBranchRequest) (branch.BranchResponse, error)
	GetBranch(ctx context.Context, id string) (branch.BranchResponse, error)
	ListBranches(ctx context.Context) ([]branch.BranchResponse, error)
	UpdateBranch(ctx context.Context, req branch.UpdateBranchRequest) error
	DeleteBranch(ctx context.Context, id string) error
}

type masterServiceImpl struct {
	tx              postgresql.Transactor
	designationRepo designation.DesignationRepository
	sectionRepo     section.SectionRepository
	branchRepo      branch.BranchRepository
	cache           cache.Cache
	cacheTTL        time.Duration
	bus             *events.Bus
}

func NewMasterService(
	tx postgresql.Transactor,
	designationRepo designation.DesignationRepository,
	sectionRepo section.SectionRepository,
	branchRepo branch.BranchRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	bus *events.Bus,
) MasterService {
	return &masterServiceImpl{
		tx:              tx,
		designationRepo: designationRepo,
		sectionRepo:     sectionRepo,
		branchRepo:      branchRepo,
		cache:           c,
		cacheTTL:        cacheTTL,
		bus:             bus,
	}
}

// CacheInvalidator returns the subscriber that drops the cached list for any
// changed reference-data collection.
func CacheInvalidator(c cache.Cache) events.Subscriber {
	keys := map[string]string{
		"designations":     cacheKeyDesignations,
		"payroll_sections": cacheKeySections,
		"branches":         cacheKeyBranches,
	}
	return func(ctx context.Context, event events.EntityChanged) error {
		key, ok := keys[event.Collection]
		if !ok {
			return nil
		}
		return c.Delete(ctx, key)
	}
}

func (s *masterServiceImpl) cacheList(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		slog.Warn("failed to cache reference data", "key", key, "error", err)
	}
}

// applyShifts runs a plan against one ordered table.
func applyShifts(ctx context.Context, repo ordered.Repository, shifts []Shift) error {
	for _, shift := range shifts {
		if err := repo.ShiftKeys(ctx, shift.From, shift.To, shift.Delta); err != nil {
			return err
		}
	}
	return nil
}

// ==================== DESIGNATION OPERATIONS ====================

func (s *masterServiceImpl) CreateDesignation(ctx context.Context, req designation.CreateDesignationRequest) (designation.DesignationResponse, error) {
	if err := req.Validate(); err != nil {
		return designation.DesignationResponse{}, err
	}

	var created designation.Designation
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		maxKey, err := s.designationRepo.MaxOrderKey(ctx)
		if err != nil {
			return err
		}

		shifts, key := PlanInsert(req.DisplayOrderKey, maxKey)
		if err := applyShifts(ctx, s.designationRepo, shifts); err != nil {
			return err
		}

		created, err = s.designationRepo.Create(ctx, designation.Designation{
			Name:            req.Name,
			DisplayOrderKey: &key,
		})
		return err
	})
	if err != nil {
		return designation.DesignationResponse{}, err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("designations", created.ID))

	return toDesignationResponse(created), nil
}

func (s *masterServiceImpl) GetDesignation(ctx context.Context, id string) (designation.DesignationResponse, error) {
	d, err := s.designationRepo.GetByID(ctx, id)
	if err != nil {
		return designation.DesignationResponse{}, err
	}
	return toDesignationResponse(d), nil
}

func (s *masterServiceImpl) ListDesignations(ctx context.Context) ([]designation.DesignationResponse, error) {
	var cached []designation.DesignationResponse
	if err := s.cache.Get(ctx, cacheKeyDesignations, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		slog.Warn("cache read failed", "key", cacheKeyDesignations, "error", err)
	}

	designations, err := s.designationRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]designation.DesignationResponse, 0, len(designations))
	for _, d := range designations {
		responses = append(responses, toDesignationResponse(d))
	}

	s.cacheList(ctx, cacheKeyDesignations, responses)

	return responses, nil
}

func (s *masterServiceImpl) UpdateDesignation(ctx context.Context, req designation.UpdateDesignationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.designationRepo.GetRow(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			if err := s.designationRepo.UpdateName(ctx, req.ID, *req.Name); err != nil {
				return err
			}
		}

		switch {
		case req.ClearDisplayOrder:
			if err := applyShifts(ctx, s.designationRepo, PlanClear(row.DisplayOrderKey)); err != nil {
				return err
			}
			return s.designationRepo.SetKey(ctx, req.ID, nil)
		case req.DisplayOrderKey != nil:
			maxKey, err := s.designationRepo.MaxOrderKey(ctx)
			if err != nil {
				return err
			}
			shifts, key := PlanMove(row.DisplayOrderKey, *req.DisplayOrderKey, maxKey)
			if err := applyShifts(ctx, s.designationRepo, shifts); err != nil {
				return err
			}
			return s.designationRepo.SetKey(ctx, req.ID, &key)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("designations", req.ID))

	return nil
}

func (s *masterServiceImpl) DeleteDesignation(ctx context.Context, id string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.designationRepo.GetRow(ctx, id)
		if err != nil {
			return err
		}

		if err := s.designationRepo.Delete(ctx, id); err != nil {
			return err
		}

		return applyShifts(ctx, s.designationRepo, PlanRemove(row.DisplayOrderKey))
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("designations", id))

	return nil
}

// ==================== PAYROLL SECTION OPERATIONS ====================

func (s *masterServiceImpl) CreateSection(ctx context.Context, req section.CreateSectionRequest) (section.SectionResponse, error) {
	if err := req.Validate(); err != nil {
		return section.SectionResponse{}, err
	}

	var created section.PayrollSection
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		maxKey, err := s.sectionRepo.MaxOrderKey(ctx)
		if err != nil {
			return err
		}

		shifts, key := PlanInsert(req.DisplayOrderKey, maxKey)
		if err := applyShifts(ctx, s.sectionRepo, shifts); err != nil {
			return err
		}

		created, err = s.sectionRepo.Create(ctx, section.PayrollSection{
			Name:            req.Name,
			DisplayOrderKey: &key,
		})
		return err
	})
	if err != nil {
		return section.SectionResponse{}, err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("payroll_sections", created.ID))

	return toSectionResponse(created), nil
}

func (s *masterServiceImpl) GetSection(ctx context.Context, id string) (section.SectionResponse, error) {
	sec, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return section.SectionResponse{}, err
	}
	return toSectionResponse(sec), nil
}

func (s *masterServiceImpl) ListSections(ctx context.Context) ([]section.SectionResponse, error) {
	var cached []section.SectionResponse
	if err := s.cache.Get(ctx, cacheKeySections, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		slog.Warn("cache read failed", "key", cacheKeySections, "error", err)
	}

	sections, err := s.sectionRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]section.SectionResponse, 0, len(sections))
	for _, sec := range sections {
		responses = append(responses, toSectionResponse(sec))
	}

	s.cacheList(ctx, cacheKeySections, responses)

	return responses, nil
}

func (s *masterServiceImpl) UpdateSection(ctx context.Context, req section.UpdateSectionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.sectionRepo.GetRow(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			if err := s.sectionRepo.UpdateName(ctx, req.ID, *req.Name); err != nil {
				return err
			}
		}

		switch {
		case req.ClearDisplayOrder:
			if err := applyShifts(ctx, s.sectionRepo, PlanClear(row.DisplayOrderKey)); err != nil {
				return err
			}
			return s.sectionRepo.SetKey(ctx, req.ID, nil)
		case req.DisplayOrderKey != nil:
			maxKey, err := s.sectionRepo.MaxOrderKey(ctx)
			if err != nil {
				return err
			}
			shifts, key := PlanMove(row.DisplayOrderKey, *req.DisplayOrderKey, maxKey)
			if err := applyShifts(ctx, s.sectionRepo, shifts); err != nil {
				return err
			}
			return s.sectionRepo.SetKey(ctx, req.ID, &key)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("payroll_sections", req.ID))

	return nil
}

func (s *masterServiceImpl) DeleteSection(ctx context.Context, id string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.sectionRepo.GetRow(ctx, id)
		if err != nil {
			return err
		}

		if err := s.sectionRepo.Delete(ctx, id); err != nil {
			return err
		}

		return applyShifts(ctx, s.sectionRepo, PlanRemove(row.DisplayOrderKey))
	})
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("payroll_sections", id))

	return nil
}

// ==================== BRANCH OPERATIONS ====================

func (s *masterServiceImpl) CreateBranch(ctx context.Context, req branch.CreateBranchRequest) (branch.BranchResponse, error) {
	if err := req.Validate(); err != nil {
		return branch.BranchResponse{}, err
	}

	created, err := s.branchRepo.Create(ctx, branch.Branch{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		return branch.BranchResponse{}, err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("branches", created.ID))

	return toBranchResponse(created), nil
}

func (s *masterServiceImpl) GetBranch(ctx context.Context, id string) (branch.BranchResponse, error) {
	b, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return branch.BranchResponse{}, err
	}
	return toBranchResponse(b), nil
}

func (s *masterServiceImpl) ListBranches(ctx context.Context) ([]branch.BranchResponse, error) {
	var cached []branch.BranchResponse
	if err := s.cache.Get(ctx, cacheKeyBranches, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		slog.Warn("cache read failed", "key", cacheKeyBranches, "error", err)
	}

	branches, err := s.branchRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]branch.BranchResponse, 0, len(branches))
	for _, b := range branches {
		responses = append(responses, toBranchResponse(b))
	}

	s.cacheList(ctx, cacheKeyBranches, responses)

	return responses, nil
}

func (s *masterServiceImpl) UpdateBranch(ctx context.Context, req branch.UpdateBranchRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.branchRepo.Update(ctx, req); err != nil {
		return err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("branches", req.ID))

	return nil
}

func (s *masterServiceImpl) DeleteBranch(ctx context.Context, id string) error {
	if err := s.branchRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.bus.Publish(ctx, events.NewEntityChanged("branches", id))

	return nil
}

func toDesignationResponse(d designation.Designation) designation.DesignationResponse {
	return designation.DesignationResponse{
		ID:              d.ID,
		Name:            d.Name,
		DisplayOrderKey: d.DisplayOrderKey,
	}
}

func toSectionResponse(s section.PayrollSection) section.SectionResponse {
	return section.SectionResponse{
		ID:              s.ID,
		Name:            s.Name,
		DisplayOrderKey: s.DisplayOrderKey,
	}
}

func toBranchResponse(b branch.Branch) branch.BranchResponse {
	return branch.BranchResponse{
		ID:      b.ID,
		Name:    b.Name,
		Address: b.Address,
	}
}
