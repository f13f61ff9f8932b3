package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ifinsure/internal/model"
	"ifinsure/internal/reference"
	"ifinsure/internal/repository"
	"ifinsure/internal/storage"
)

var (
	ErrNotDraft           = errors.New("application is not in draft")
	ErrNotSubmitted       = errors.New("application is not awaiting review")
	ErrPaymentOutstanding = errors.New("application payment is outstanding")
	ErrPolicyNotActive    = errors.New("policy is not active")
)

// CreateApplicationInput carries the fields of a new draft application.
type CreateApplicationInput struct {
	ApplicantID             string          `json:"applicant_id"`
	ProductID               string          `json:"product_id"`
	RequestedCoverage       decimal.Decimal `json:"requested_coverage"`
	RequestedTermMonths     int             `json:"requested_term_months"`
	PaymentFrequency        string          `json:"payment_frequency"`
	BeneficiaryName         string          `json:"beneficiary_name"`
	BeneficiaryRelationship string          `json:"beneficiary_relationship"`
	BeneficiaryPhone        string          `json:"beneficiary_phone"`
	Notes                   string          `json:"notes"`
}

// UploadDocumentInput carries an uploaded policy document.
type UploadDocumentInput struct {
	PolicyID     string
	DocumentType string
	Title        string
	Description  string
	ContentType  string
	Size         int64
	Body         io.Reader
	UploadedByID *string
}

// PolicyListResult is the service-level DTO for a policy page.
type PolicyListResult struct {
	Items []model.Policy `json:"data"`
	Total int            `json:"total"`
}

// ApplicationListResult is the service-level DTO for an application page.
type ApplicationListResult struct {
	Items []model.PolicyApplication `json:"data"`
	Total int                       `json:"total"`
}

// PolicyService runs the application pipeline and manages issued
// policies. Submitting an application computes the upfront payment from
// the product and opens a workflow ticket for review; approval issues
// the policy.
type PolicyService interface {
	CreateApplication(ctx context.Context, in CreateApplicationInput) (*model.PolicyApplication, error)
	GetApplication(ctx context.Context, id string) (*model.PolicyApplication, error)
	ListApplications(ctx context.Context, f repository.ApplicationFilter, limit, offset int) (*ApplicationListResult, error)
	SubmitApplication(ctx context.Context, id string) (*model.PolicyApplication, error)
	PayApplication(ctx context.Context, id string, useWallet bool, externalRef string) (*model.PolicyApplication, error)
	ApproveApplication(ctx context.Context, id, reviewerID string) (*model.PolicyApplication, error)
	RejectApplication(ctx context.Context, id, reviewerID, reason string) (*model.PolicyApplication, error)
	CancelApplication(ctx context.Context, id string) (*model.PolicyApplication, error)
	TrashApplication(ctx context.Context, id, actorID, reason string) error

	GetPolicy(ctx context.Context, id string) (*model.Policy, error)
	ListPolicies(ctx context.Context, f repository.PolicyFilter, limit, offset int) (*PolicyListResult, error)
	SuspendPolicy(ctx context.Context, id, notes string) (*model.Policy, error)
	ReactivatePolicy(ctx context.Context, id string) (*model.Policy, error)
	CancelPolicy(ctx context.Context, id, notes string) (*model.Policy, error)
	RenewPolicy(ctx context.Context, id string, termMonths int) (*model.Policy, error)
	TrashPolicy(ctx context.Context, id, actorID, reason string) error
	PolicyStats(ctx context.Context) (map[string]int, error)

	UploadPolicyDocument(ctx context.Context, in UploadDocumentInput) (*model.PolicyDocument, error)
	ListPolicyDocuments(ctx context.Context, policyID string) ([]model.PolicyDocument, error)
	PolicyDocumentURL(ctx context.Context, documentID string, expiry time.Duration) (string, error)
	DeletePolicyDocument(ctx context.Context, documentID string) error

	// ExpireDue flips active policies past their end date and notifies
	// the customers. Returns the number flipped.
	ExpireDue(ctx context.Context, now time.Time) (int, error)

	// NotifyExpiring warns customers whose policies end within the
	// window. Returns the number notified.
	NotifyExpiring(ctx context.Context, from, to time.Time) (int, error)

	RegisterTrashHandlers(trash TrashService)
	RegisterSearchIndexer(ix Indexer)
}

// InvoiceIssuer is the narrow billing surface policy approval uses to
// raise the first premium invoice.
type InvoiceIssuer interface {
	CreateInvoice(ctx context.Context, in CreateInvoiceInput) (*model.Invoice, error)
}

type policyService struct {
	policies     repository.PolicyRepository
	applications repository.ApplicationRepository
	documents    repository.PolicyDocumentRepository
	products     repository.ProductRepository
	workflow     TicketCreator
	wallet       WalletService
	notifier     NotificationService
	billing      InvoiceIssuer
	trash        TrashRecorder
	search       Indexer
	store        storage.Storage
	now          func() time.Time
}

// NewPolicyService constructs a new PolicyService.
func NewPolicyService(
	policies repository.PolicyRepository,
	applications repository.ApplicationRepository,
	documents repository.PolicyDocumentRepository,
	products repository.ProductRepository,
	workflow TicketCreator,
	wallet WalletService,
	notifier NotificationService,
	billing InvoiceIssuer,
	trash TrashRecorder,
	store storage.Storage,
) PolicyService {
	return &policyService{
		policies:     policies,
		applications: applications,
		documents:    documents,
		products:     products,
		workflow:     workflow,
		wallet:       wallet,
		notifier:     notifier,
		billing:      billing,
		trash:        trash,
		store:        store,
		now:          time.Now,
	}
}

func (s *policyService) CreateApplication(ctx context.Context, in CreateApplicationInput) (*model.PolicyApplication, error) {
	if in.ApplicantID == "" || in.ProductID == "" {
		return nil, fmt.Errorf("%w: applicant_id and product_id", ErrValidation)
	}
	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if in.RequestedCoverage.LessThan(product.MinSumInsured) {
		return nil, fmt.Errorf("%w: coverage below the product minimum", ErrValidation)
	}
	if product.MaxSumInsured != nil && in.RequestedCoverage.GreaterThan(*product.MaxSumInsured) {
		return nil, fmt.Errorf("%w: coverage above the product maximum", ErrValidation)
	}
	if in.RequestedTermMonths <= 0 {
		in.RequestedTermMonths = product.DefaultDurationMonths
	}
	if in.PaymentFrequency == "" {
		in.PaymentFrequency = model.FrequencyAnnual
	}

	now := s.now()
	seq, err := s.applications.NextSequence(ctx, reference.MonthlyPrefix("APP", now))
	if err != nil {
		return nil, err
	}

	premium := product.CalculatePremium(in.RequestedCoverage)
	due, breakdown := product.ApplicationPaymentAmount(premium)
	paymentStatus := model.AppPaymentPending
	if due.IsZero() {
		paymentStatus = model.AppPaymentNotRequired
	}

	return s.applications.Create(ctx, &model.PolicyApplication{
		ApplicationNumber:       reference.Monthly("APP", now, seq),
		ApplicantID:             in.ApplicantID,
		ProductID:               in.ProductID,
		Status:                  model.ApplicationDraft,
		RequestedCoverage:       in.RequestedCoverage,
		RequestedTermMonths:     in.RequestedTermMonths,
		PaymentFrequency:        in.PaymentFrequency,
		CalculatedPremium:       &premium,
		BeneficiaryName:         in.BeneficiaryName,
		BeneficiaryRelationship: in.BeneficiaryRelationship,
		BeneficiaryPhone:        in.BeneficiaryPhone,
		Notes:                   in.Notes,
		PaymentStatus:           paymentStatus,
		ConvenienceFeeAmount:    breakdown.ConvenienceFee,
		PremiumAmount:           breakdown.Premium,
		TotalPaymentDue:         due,
		AmountPaid:              decimal.Zero,
	})
}

func (s *policyService) GetApplication(ctx context.Context, id string) (*model.PolicyApplication, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	app, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return app, nil
}

func (s *policyService) ListApplications(ctx context.Context, f repository.ApplicationFilter, limit, offset int) (*ApplicationListResult, error) {
	res, err := s.applications.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return &ApplicationListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *policyService) SubmitApplication(ctx context.Context, id string) (*model.PolicyApplication, error) {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != model.ApplicationDraft {
		return nil, ErrNotDraft
	}
	now := s.now()
	app.Status = model.ApplicationSubmitted
	app.SubmittedAt = &now
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}

	ticket, err := s.workflow.CreateTicket(ctx, CreateTicketInput{
		TicketType:      model.TicketTypePolicy,
		Subject:         fmt.Sprintf("Review application %s", app.ApplicationNumber),
		EntityType:      model.EntityApplication,
		EntityID:        app.ID,
		EstimatedAmount: app.RequestedCoverage,
		CustomerID:      &app.ApplicantID,
		AutoAssign:      true,
	})
	if err != nil {
		return nil, err
	}
	if ticket.AssignedToID != nil {
		app.AssignedAgentID = ticket.AssignedToID
		app.Status = model.ApplicationUnderReview
		if err := s.applications.Update(ctx, app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

func (s *policyService) PayApplication(ctx context.Context, id string, useWallet bool, externalRef string) (*model.PolicyApplication, error) {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	outstanding := app.PaymentOutstanding()
	if outstanding.IsZero() {
		return app, nil
	}

	ref := externalRef
	if useWallet {
		wallet, err := s.wallet.GetByUser(ctx, app.ApplicantID)
		if err != nil {
			return nil, err
		}
		txn, err := s.wallet.Pay(ctx, wallet.ID, outstanding, model.TxnPremiumPayment,
			fmt.Sprintf("Payment for application %s", app.ApplicationNumber), app.ApplicationNumber)
		if err != nil {
			return nil, err
		}
		ref = txn.Reference
	} else if ref == "" {
		return nil, fmt.Errorf("%w: payment reference", ErrValidation)
	}

	now := s.now()
	app.AmountPaid = app.AmountPaid.Add(outstanding)
	app.PaymentStatus = model.AppPaymentPaid
	app.PaymentReference = ref
	app.PaidAt = &now
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *policyService) ApproveApplication(ctx context.Context, id, reviewerID string) (*model.PolicyApplication, error) {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != model.ApplicationSubmitted && app.Status != model.ApplicationUnderReview {
		return nil, ErrNotSubmitted
	}
	if app.PaymentStatus == model.AppPaymentPending && app.TotalPaymentDue.IsPositive() {
		return nil, ErrPaymentOutstanding
	}

	now := s.now()
	seq, err := s.policies.NextSequence(ctx, reference.MonthlyPrefix("POL", now))
	if err != nil {
		return nil, err
	}
	premium := app.CalculatedPremium
	if premium == nil {
		p := decimal.Zero
		premium = &p
	}
	policy, err := s.policies.Create(ctx, &model.Policy{
		PolicyNumber:            reference.Monthly("POL", now, seq),
		CustomerID:              app.ApplicantID,
		ProductID:               app.ProductID,
		AgentID:                 app.AssignedAgentID,
		Status:                  model.PolicyActive,
		StartDate:               now,
		EndDate:                 now.AddDate(0, app.RequestedTermMonths, 0),
		PremiumAmount:           *premium,
		CoverageAmount:          app.RequestedCoverage,
		PaymentFrequency:        app.PaymentFrequency,
		BeneficiaryName:         app.BeneficiaryName,
		BeneficiaryRelationship: app.BeneficiaryRelationship,
		BeneficiaryPhone:        app.BeneficiaryPhone,
	})
	if err != nil {
		return nil, err
	}

	app.Status = model.ApplicationApproved
	app.ReviewedAt = &now
	app.ReviewedByID = &reviewerID
	app.PolicyID = &policy.ID
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}
	if s.billing != nil && policy.PremiumAmount.IsPositive() {
		if _, err := s.billing.CreateInvoice(ctx, CreateInvoiceInput{
			CustomerID:  app.ApplicantID,
			PolicyID:    &policy.ID,
			Amount:      policy.PremiumAmount,
			DueDate:     now.AddDate(0, 0, 30),
			Description: fmt.Sprintf("Premium for policy %s", policy.PolicyNumber),
		}); err != nil {
			return nil, fmt.Errorf("raise premium invoice: %w", err)
		}
	}
	s.indexPolicy(ctx, policy)

	_, _ = s.notifier.Notify(ctx, NotifyInput{
		RecipientID: app.ApplicantID,
		Type:        model.NotifySuccess,
		Event:       model.EventPolicyCreated,
		Title:       "Application approved",
		Message:     fmt.Sprintf("Your policy %s is now active until %s", policy.PolicyNumber, policy.EndDate.Format("2 Jan 2006")),
		Icon:        "policy",
		EntityType:  model.EntityPolicy,
		EntityID:    policy.ID,
	})
	return app, nil
}

func (s *policyService) RejectApplication(ctx context.Context, id, reviewerID, reason string) (*model.PolicyApplication, error) {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != model.ApplicationSubmitted && app.Status != model.ApplicationUnderReview {
		return nil, ErrNotSubmitted
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason", ErrValidation)
	}
	now := s.now()
	app.Status = model.ApplicationRejected
	app.ReviewedAt = &now
	app.ReviewedByID = &reviewerID
	app.RejectionReason = reason
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}
	_, _ = s.notifier.Notify(ctx, NotifyInput{
		RecipientID: app.ApplicantID,
		Type:        model.NotifyWarning,
		Event:       model.EventPolicyCreated,
		Title:       "Application rejected",
		Message:     fmt.Sprintf("Application %s was rejected: %s", app.ApplicationNumber, reason),
		Icon:        "policy",
		EntityType:  model.EntityApplication,
		EntityID:    app.ID,
	})
	return app, nil
}

func (s *policyService) CancelApplication(ctx context.Context, id string) (*model.PolicyApplication, error) {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	switch app.Status {
	case model.ApplicationApproved, model.ApplicationRejected, model.ApplicationCancelled:
		return nil, fmt.Errorf("%w: application already decided", ErrValidation)
	}
	app.Status = model.ApplicationCancelled
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *policyService) TrashApplication(ctx context.Context, id, actorID, reason string) error {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return err
	}
	tr := newTrashState(s.now(), actorID, reason)
	if err := s.applications.Trash(ctx, id, tr); err != nil {
		return err
	}
	return s.trash.Record(ctx, RecordTrashInput{
		EntityType: model.EntityApplication,
		EntityID:   id,
		Title:      app.ApplicationNumber,
		Subtitle:   app.Status,
		Icon:       "file-text",
		ActorID:    actorID,
		Reason:     reason,
		Snapshot:   app,
		ExpiresAt:  *tr.PermanentDeleteAt,
	})
}

func (s *policyService) GetPolicy(ctx context.Context, id string) (*model.Policy, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.policies.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return p, nil
}

func (s *policyService) ListPolicies(ctx context.Context, f repository.PolicyFilter, limit, offset int) (*PolicyListResult, error) {
	res, err := s.policies.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return &PolicyListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *policyService) SuspendPolicy(ctx context.Context, id, notes string) (*model.Policy, error) {
	policy, err := s.GetPolicy(ctx, id)
	if err != nil {
		return nil, err
	}
	if policy.Status != model.PolicyActive {
		return nil, ErrPolicyNotActive
	}
	policy.Status = model.PolicySuspended
	if notes != "" {
		policy.Notes = notes
	}
	if err := s.policies.Update(ctx, policy); err != nil {
		return nil, err
	}
	s.indexPolicy(ctx, policy)
	return policy, nil
}

func (s *policyService) ReactivatePolicy(ctx context.Context, id string) (*model.Policy, error) {
	policy, err := s.GetPolicy(ctx, id)
	if err != nil {
		return nil, err
	}
	if policy.Status != model.PolicySuspended {
		return nil, fmt.Errorf("%w: policy is not suspended", ErrValidation)
	}
	if policy.IsExpired(s.now()) {
		return nil, fmt.Errorf("%w: policy term has ended", ErrValidation)
	}
	policy.Status = model.PolicyActive
	if err := s.policies.Update(ctx, policy); err != nil {
		return nil, err
	}
	s.indexPolicy(ctx, policy)
	return policy, nil
}

func (s *policyService) CancelPolicy(ctx context.Context, id, notes string) (*model.Policy, error) {
	policy, err := s.GetPolicy(ctx, id)
	if err != nil {
		return nil, err
	}
	switch policy.Status {
	case model.PolicyCancelled, model.PolicyExpired:
		return nil, fmt.Errorf("%w: policy already ended", ErrValidation)
	}
	policy.Status = model.PolicyCancelled
	if notes != "" {
		policy.Notes = notes
	}
	if err := s.policies.Update(ctx, policy); err != nil {
		return nil, err
	}
	s.indexPolicy(ctx, policy)
	return policy, nil
}

func (s *policyService) RenewPolicy(ctx context.Context, id string, termMonths int) (*model.Policy, error) {
	policy, err := s.GetPolicy(ctx, id)
	if err != nil {
		return nil, err
	}
	switch policy.Status {
	case model.PolicyActive, model.PolicyExpired:
	default:
		return nil, fmt.Errorf("%w: only active or expired policies renew", ErrValidation)
	}
	if termMonths <= 0 {
		termMonths = 12
	}
	start := policy.EndDate
	now := s.now()
	if start.Before(now) {
		start = now
	}
	policy.StartDate = start
	policy.EndDate = start.AddDate(0, termMonths, 0)
	policy.Status = model.PolicyActive
	if err := s.policies.Update(ctx, policy); err != nil {
		return nil, err
	}
	s.indexPolicy(ctx, policy)
	return policy, nil
}

func (s *policyService) TrashPolicy(ctx context.Context, id, actorID, reason string) error {
	policy, err := s.GetPolicy(ctx, id)
	if err != nil {
		return err
	}
	tr := newTrashState(s.now(), actorID, reason)
	if err := s.policies.Trash(ctx, id, tr); err != nil {
		return err
	}
	if s.search != nil {
		_ = s.search.Deindex(ctx, model.EntityPolicy, id)
	}
	return s.trash.Record(ctx, RecordTrashInput{
		EntityType: model.EntityPolicy,
		EntityID:   id,
		Title:      policy.PolicyNumber,
		Subtitle:   policy.Status,
		Icon:       "policy",
		ActorID:    actorID,
		Reason:     reason,
		Snapshot:   policy,
		ExpiresAt:  *tr.PermanentDeleteAt,
	})
}

func (s *policyService) PolicyStats(ctx context.Context) (map[string]int, error) {
	return s.policies.CountByStatus(ctx)
}

func (s *policyService) UploadPolicyDocument(ctx context.Context, in UploadDocumentInput) (*model.PolicyDocument, error) {
	if in.Title == "" || in.Body == nil {
		return nil, fmt.Errorf("%w: title and body", ErrValidation)
	}
	policy, err := s.GetPolicy(ctx, in.PolicyID)
	if err != nil {
		return nil, err
	}
	if in.DocumentType == "" {
		in.DocumentType = model.PolicyDocOther
	}

	key := path.Join("policies", policy.ID, uuid.NewString())
	info, err := s.store.Put(ctx, key, in.Body, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	doc, err := s.documents.Create(ctx, &model.PolicyDocument{
		PolicyID:     policy.ID,
		DocumentType: in.DocumentType,
		Title:        in.Title,
		StorageKey:   info.Key,
		Size:         info.Size,
		ContentType:  in.ContentType,
		Description:  in.Description,
		UploadedByID: in.UploadedByID,
	})
	if err != nil {
		// Keep storage consistent when the row fails.
		_ = s.store.Delete(ctx, info.Key)
		return nil, err
	}
	return doc, nil
}

func (s *policyService) ListPolicyDocuments(ctx context.Context, policyID string) ([]model.PolicyDocument, error) {
	if policyID == "" {
		return nil, ErrIDRequired
	}
	return s.documents.ListByPolicy(ctx, policyID)
}

func (s *policyService) PolicyDocumentURL(ctx context.Context, documentID string, expiry time.Duration) (string, error) {
	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		return "", mapNotFound(err)
	}
	return s.store.PresignGet(ctx, doc.StorageKey, expiry)
}

func (s *policyService) DeletePolicyDocument(ctx context.Context, documentID string) error {
	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		return mapNotFound(err)
	}
	if err := s.documents.Delete(ctx, doc.ID); err != nil {
		return err
	}
	return s.store.Delete(ctx, doc.StorageKey)
}

func (s *policyService) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.policies.MarkExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		policy, err := s.policies.FindByID(ctx, id)
		if err != nil {
			continue
		}
		_, _ = s.notifier.Notify(ctx, NotifyInput{
			RecipientID: policy.CustomerID,
			Type:        model.NotifyWarning,
			Event:       model.EventPolicyExpired,
			Title:       "Policy expired",
			Message:     fmt.Sprintf("Policy %s expired on %s", policy.PolicyNumber, policy.EndDate.Format("2 Jan 2006")),
			Icon:        "policy",
			EntityType:  model.EntityPolicy,
			EntityID:    policy.ID,
		})
	}
	return len(ids), nil
}

func (s *policyService) NotifyExpiring(ctx context.Context, from, to time.Time) (int, error) {
	expiring, err := s.policies.ListExpiring(ctx, from, to)
	if err != nil {
		return 0, err
	}
	for _, policy := range expiring {
		_, _ = s.notifier.Notify(ctx, NotifyInput{
			RecipientID: policy.CustomerID,
			Type:        model.NotifyInfo,
			Event:       model.EventPolicyExpiring,
			Title:       "Policy expiring soon",
			Message:     fmt.Sprintf("Policy %s expires on %s. Renew to stay covered.", policy.PolicyNumber, policy.EndDate.Format("2 Jan 2006")),
			Icon:        "policy",
			EntityType:  model.EntityPolicy,
			EntityID:    policy.ID,
		})
	}
	return len(expiring), nil
}

// RegisterTrashHandlers wires restore and purge for policies and
// applications into the trash registry.
func (s *policyService) RegisterTrashHandlers(trash TrashService) {
	trash.RegisterHandler(model.EntityPolicy, TrashHandler{
		Restore: s.policies.Restore,
		Purge:   s.policies.Purge,
	})
	trash.RegisterHandler(model.EntityApplication, TrashHandler{
		Restore: s.applications.Restore,
		Purge:   s.applications.Purge,
	})
}

// RegisterSearchIndexer wires the search index refresh hooks. Refreshes
// are best effort and never fail the triggering write.
func (s *policyService) RegisterSearchIndexer(ix Indexer) {
	s.search = ix
}

func (s *policyService) indexPolicy(ctx context.Context, policy *model.Policy) {
	if s.search == nil {
		return
	}
	owner := policy.CustomerID
	_ = s.search.Index(ctx, IndexInput{
		EntityType: model.EntityPolicy,
		EntityID:   policy.ID,
		Title:      policy.PolicyNumber,
		Subtitle:   policy.Status,
		Keywords:   policy.PolicyNumber,
		Icon:       "policy",
		URL:        "/api/v1/policies/" + policy.ID,
		Visibility: model.VisibilityPrivate,
		OwnerID:    &owner,
		Weight:     8,
	})
}
