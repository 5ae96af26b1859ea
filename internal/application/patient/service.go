package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/leaftolife/backend/internal/domain/membership"
	"github.com/leaftolife/backend/internal/domain/patient"
	"github.com/leaftolife/backend/internal/domain/shared"
)

// Service handles patient record operations
type Service struct {
	patientRepo    patient.Repository
	tierRepo       membership.Repository
	eventPublisher shared.EventPublisher
}

// NewService creates a new patient Service
func NewService(patientRepo patient.Repository, tierRepo membership.Repository) *Service {
	return &Service{
		patientRepo: patientRepo,
		tierRepo:    tierRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register registers a new patient. A patient code is generated when the
// request does not carry one.
func (s *Service) Register(ctx context.Context, req RegisterPatientRequest) (*PatientResponse, error) {
	code := req.Code
	if code == "" {
		generated, err := s.patientRepo.GenerateCode(ctx)
		if err != nil {
			return nil, err
		}
		code = generated
	} else {
		exists, err := s.patientRepo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("DUPLICATE_CODE", "A patient with this code already exists")
		}
	}

	p, err := patient.NewPatient(code, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	if err := p.UpdateDetails(req.FirstName, req.LastName, req.Email, req.Phone, req.Address, req.DateOfBirth); err != nil {
		return nil, err
	}
	p.UpdateClinicalNotes(req.Allergies, req.Notes)

	if err := s.patientRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p)

	response := ToPatientResponse(p)
	return &response, nil
}

// GetByID retrieves a patient by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPatientResponse(p)
	return &response, nil
}

// GetByCode retrieves a patient by patient code
func (s *Service) GetByCode(ctx context.Context, code string) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToPatientResponse(p)
	return &response, nil
}

// List retrieves patients with filtering and pagination
func (s *Service) List(ctx context.Context, filter PatientListFilter) ([]PatientResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.TierID != nil {
		domainFilter.Filters["membership_tier_id"] = *filter.TierID
	}

	patients, err := s.patientRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.patientRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPatientResponses(patients), total, nil
}

// Update updates a patient's contact details
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdatePatientRequest) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.UpdateDetails(req.FirstName, req.LastName, req.Email, req.Phone, req.Address, req.DateOfBirth); err != nil {
		return nil, err
	}

	if err := s.patientRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPatientResponse(p)
	return &response, nil
}

// UpdateClinicalNotes updates a patient's allergies and clinical notes
func (s *Service) UpdateClinicalNotes(ctx context.Context, id uuid.UUID, req UpdateClinicalNotesRequest) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.UpdateClinicalNotes(req.Allergies, req.Notes)

	if err := s.patientRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPatientResponse(p)
	return &response, nil
}

// AssignTier assigns a membership tier to a patient
func (s *Service) AssignTier(ctx context.Context, id uuid.UUID, req AssignTierRequest) (*PatientResponse, error) {
	tier, err := s.tierRepo.FindByID(ctx, req.TierID)
	if err != nil {
		return nil, err
	}
	if !tier.Active {
		return nil, shared.NewDomainError("TIER_INACTIVE", "Cannot assign an inactive membership tier")
	}

	p, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.AssignMembershipTier(tier.ID); err != nil {
		return nil, err
	}

	if err := s.patientRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p)

	response := ToPatientResponse(p)
	return &response, nil
}

// ClearTier removes a patient's membership tier
func (s *Service) ClearTier(ctx context.Context, id uuid.UUID) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.ClearMembershipTier()

	if err := s.patientRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPatientResponse(p)
	return &response, nil
}

// Archive archives a patient record
func (s *Service) Archive(ctx context.Context, id uuid.UUID) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Archive(); err != nil {
		return nil, err
	}

	if err := s.patientRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p)

	response := ToPatientResponse(p)
	return &response, nil
}

// Restore restores an archived patient record
func (s *Service) Restore(ctx context.Context, id uuid.UUID) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Restore(); err != nil {
		return nil, err
	}

	if err := s.patientRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPatientResponse(p)
	return &response, nil
}

func (s *Service) publishEvents(ctx context.Context, p *patient.Patient) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range p.GetDomainEvents() {
		// Event handling is async; a publish failure never fails the operation
		_ = s.eventPublisher.Publish(ctx, event)
	}
	p.ClearDomainEvents()
}
