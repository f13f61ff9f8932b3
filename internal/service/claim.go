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
	ErrClaimSettled      = errors.New("claim is already settled")
	ErrClaimNotApproved  = errors.New("claim is not approved for payout")
	ErrCoverageExceeded  = errors.New("claimed amount exceeds policy coverage")
	ErrPolicyNotCovering = errors.New("policy was not active on the incident date")
)

// CreateClaimInput carries the fields of a new draft claim.
type CreateClaimInput struct {
	PolicyID            string          `json:"policy_id"`
	ClaimantID          string          `json:"claimant_id"`
	IncidentDate        time.Time       `json:"incident_date"`
	IncidentDescription string          `json:"incident_description"`
	IncidentLocation    string          `json:"incident_location"`
	ClaimedAmount       decimal.Decimal `json:"claimed_amount"`
}

// UploadClaimDocumentInput carries an uploaded claim document.
type UploadClaimDocumentInput struct {
	ClaimID      string
	DocumentType string
	Title        string
	Description  string
	ContentType  string
	Size         int64
	Body         io.Reader
	UploadedByID *string
}

// ClaimListResult is the service-level DTO for a claim page.
type ClaimListResult struct {
	Items []model.Claim `json:"data"`
	Total int           `json:"total"`
}

// ClaimService runs the claims pipeline. Submission validates the claim
// against the policy, opens a workflow ticket whose priority and required
// level follow the claimed amount, and settlement pays out through the
// claimant's wallet.
type ClaimService interface {
	CreateClaim(ctx context.Context, in CreateClaimInput) (*model.Claim, error)
	GetClaim(ctx context.Context, id string) (*model.Claim, error)
	ListClaims(ctx context.Context, f repository.ClaimFilter, limit, offset int) (*ClaimListResult, error)
	SubmitClaim(ctx context.Context, id string) (*model.Claim, error)
	StartReview(ctx context.Context, id, adjusterID string) (*model.Claim, error)
	StartInvestigation(ctx context.Context, id, notes string) (*model.Claim, error)
	ApproveClaim(ctx context.Context, id, reviewerID string, approvedAmount decimal.Decimal) (*model.Claim, error)
	RejectClaim(ctx context.Context, id, reviewerID, reason string) (*model.Claim, error)
	PayClaim(ctx context.Context, id string) (*model.Claim, error)
	CloseClaim(ctx context.Context, id string) (*model.Claim, error)
	TrashClaim(ctx context.Context, id, actorID, reason string) error
	ClaimStats(ctx context.Context) (map[string]int, error)

	UploadClaimDocument(ctx context.Context, in UploadClaimDocumentInput) (*model.ClaimDocument, error)
	ListClaimDocuments(ctx context.Context, claimID string) ([]model.ClaimDocument, error)
	ClaimDocumentURL(ctx context.Context, documentID string, expiry time.Duration) (string, error)
	DeleteClaimDocument(ctx context.Context, documentID string) error

	AddClaimNote(ctx context.Context, claimID, note string, internal bool, authorID *string) (*model.ClaimNote, error)
	ListClaimNotes(ctx context.Context, claimID string, includeInternal bool) ([]model.ClaimNote, error)

	RegisterTrashHandlers(trash TrashService)
	RegisterSearchIndexer(ix Indexer)
}

type claimService struct {
	claims    repository.ClaimRepository
	documents repository.ClaimDocumentRepository
	notes     repository.ClaimNoteRepository
	policies  repository.PolicyRepository
	workflow  TicketCreator
	wallet    WalletService
	notifier  NotificationService
	trash     TrashRecorder
	search    Indexer
	store     storage.Storage
	now       func() time.Time
}

// NewClaimService constructs a new ClaimService.
func NewClaimService(
	claims repository.ClaimRepository,
	documents repository.ClaimDocumentRepository,
	notes repository.ClaimNoteRepository,
	policies repository.PolicyRepository,
	workflow TicketCreator,
	wallet WalletService,
	notifier NotificationService,
	trash TrashRecorder,
	store storage.Storage,
) ClaimService {
	return &claimService{
		claims:    claims,
		documents: documents,
		notes:     notes,
		policies:  policies,
		workflow:  workflow,
		wallet:    wallet,
		notifier:  notifier,
		trash:     trash,
		store:     store,
		now:       time.Now,
	}
}

func (s *claimService) CreateClaim(ctx context.Context, in CreateClaimInput) (*model.Claim, error) {
	if in.PolicyID == "" || in.ClaimantID == "" {
		return nil, fmt.Errorf("%w: policy_id and claimant_id", ErrValidation)
	}
	if in.IncidentDescription == "" {
		return nil, fmt.Errorf("%w: incident description", ErrValidation)
	}
	if !in.ClaimedAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	policy, err := s.policies.FindByID(ctx, in.PolicyID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if in.IncidentDate.Before(policy.StartDate) || in.IncidentDate.After(policy.EndDate) {
		return nil, ErrPolicyNotCovering
	}
	if in.ClaimedAmount.GreaterThan(policy.CoverageAmount) {
		return nil, ErrCoverageExceeded
	}

	now := s.now()
	seq, err := s.claims.NextSequence(ctx, reference.MonthlyPrefix("CLM", now))
	if err != nil {
		return nil, err
	}
	claim, err := s.claims.Create(ctx, &model.Claim{
		ClaimNumber:         reference.Monthly("CLM", now, seq),
		PolicyID:            in.PolicyID,
		ClaimantID:          in.ClaimantID,
		Status:              model.ClaimDraft,
		Priority:            model.PriorityForAmount(in.ClaimedAmount),
		IncidentDate:        in.IncidentDate,
		IncidentDescription: in.IncidentDescription,
		IncidentLocation:    in.IncidentLocation,
		ClaimedAmount:       in.ClaimedAmount,
	})
	if err != nil {
		return nil, err
	}
	s.indexClaim(ctx, claim)
	return claim, nil
}

func (s *claimService) GetClaim(ctx context.Context, id string) (*model.Claim, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	c, err := s.claims.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return c, nil
}

func (s *claimService) ListClaims(ctx context.Context, f repository.ClaimFilter, limit, offset int) (*ClaimListResult, error) {
	res, err := s.claims.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return &ClaimListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *claimService) SubmitClaim(ctx context.Context, id string) (*model.Claim, error) {
	claim, err := s.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim.Status != model.ClaimDraft {
		return nil, ErrNotDraft
	}
	now := s.now()
	claim.Status = model.ClaimSubmitted
	claim.SubmittedAt = &now
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, err
	}

	ticket, err := s.workflow.CreateTicket(ctx, CreateTicketInput{
		TicketType:      model.TicketTypeClaim,
		Subject:         fmt.Sprintf("Assess claim %s", claim.ClaimNumber),
		Description:     claim.IncidentDescription,
		EntityType:      model.EntityClaim,
		EntityID:        claim.ID,
		EstimatedAmount: claim.ClaimedAmount,
		CustomerID:      &claim.ClaimantID,
		AutoAssign:      true,
	})
	if err != nil {
		return nil, err
	}
	if ticket.AssignedToID != nil {
		claim.AssignedAdjusterID = ticket.AssignedToID
		claim.Status = model.ClaimUnderReview
		if err := s.claims.Update(ctx, claim); err != nil {
			return nil, err
		}
	}

	_, _ = s.notifier.Notify(ctx, NotifyInput{
		RecipientID: claim.ClaimantID,
		Type:        model.NotifyInfo,
		Event:       model.EventClaimSubmitted,
		Title:       "Claim submitted",
		Message:     fmt.Sprintf("Claim %s has been received and is being processed", claim.ClaimNumber),
		Icon:        "claim",
		EntityType:  model.EntityClaim,
		EntityID:    claim.ID,
	})
	return claim, nil
}

func (s *claimService) StartReview(ctx context.Context, id, adjusterID string) (*model.Claim, error) {
	claim, err := s.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim.IsSettled() {
		return nil, ErrClaimSettled
	}
	claim.Status = model.ClaimUnderReview
	if adjusterID != "" {
		claim.AssignedAdjusterID = &adjusterID
	}
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

func (s *claimService) StartInvestigation(ctx context.Context, id, notes string) (*model.Claim, error) {
	claim, err := s.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim.IsSettled() {
		return nil, ErrClaimSettled
	}
	claim.Status = model.ClaimInvestigating
	if notes != "" {
		claim.AdjusterNotes = notes
	}
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, err
	}
	s.notifyUpdate(ctx, claim, "Your claim is under investigation")
	return claim, nil
}

func (s *claimService) ApproveClaim(ctx context.Context, id, reviewerID string, approvedAmount decimal.Decimal) (*model.Claim, error) {
	claim, err := s.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim.IsSettled() {
		return nil, ErrClaimSettled
	}
	if !approvedAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if approvedAmount.GreaterThan(claim.ClaimedAmount) {
		return nil, fmt.Errorf("%w: approved amount exceeds the claim", ErrValidation)
	}

	now := s.now()
	if approvedAmount.LessThan(claim.ClaimedAmount) {
		claim.Status = model.ClaimPartiallyApproved
	} else {
		claim.Status = model.ClaimApproved
	}
	claim.ApprovedAmount = &approvedAmount
	claim.ReviewedAt = &now
	claim.ReviewedByID = &reviewerID
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, err
	}

	_, _ = s.notifier.Notify(ctx, NotifyInput{
		RecipientID: claim.ClaimantID,
		Type:        model.NotifySuccess,
		Event:       model.EventClaimApproved,
		Title:       "Claim approved",
		Message:     fmt.Sprintf("Claim %s approved for %s %s", claim.ClaimNumber, model.CurrencyKES, approvedAmount.StringFixed(2)),
		Icon:        "claim",
		EntityType:  model.EntityClaim,
		EntityID:    claim.ID,
	})
	return claim, nil
}

func (s *claimService) RejectClaim(ctx context.Context, id, reviewerID, reason string) (*model.Claim, error) {
	claim, err := s.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim.IsSettled() {
		return nil, ErrClaimSettled
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason", ErrValidation)
	}
	now := s.now()
	claim.Status = model.ClaimRejected
	claim.ReviewedAt = &now
	claim.ReviewedByID = &reviewerID
	claim.RejectionReason = reason
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, err
	}

	_, _ = s.notifier.Notify(ctx, NotifyInput{
		RecipientID: claim.ClaimantID,
		Type:        model.NotifyWarning,
		Event:       model.EventClaimRejected,
		Title:       "Claim rejected",
		Message:     fmt.Sprintf("Claim %s was rejected: %s", claim.ClaimNumber, reason),
		Icon:        "claim",
		EntityType:  model.EntityClaim,
		EntityID:    claim.ID,
	})
	return claim, nil
}

// PayClaim settles an approved claim by crediting the claimant's wallet.
func (s *claimService) PayClaim(ctx context.Context, id string) (*model.Claim, error) {
	claim, err := s.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}
	switch claim.Status {
	case model.ClaimApproved, model.ClaimPartiallyApproved:
	default:
		return nil, ErrClaimNotApproved
	}
	if claim.ApprovedAmount == nil || !claim.ApprovedAmount.IsPositive() {
		return nil, ErrClaimNotApproved
	}

	wallet, err := s.wallet.GetByUser(ctx, claim.ClaimantID)
	if err != nil {
		return nil, err
	}
	if _, err := s.wallet.Credit(ctx, wallet.ID, *claim.ApprovedAmount, model.TxnClaimPayout,
		fmt.Sprintf("Payout for claim %s", claim.ClaimNumber), claim.ClaimNumber); err != nil {
		return nil, err
	}

	claim.Status = model.ClaimPaid
	claim.PaidAmount = claim.ApprovedAmount
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, err
	}
	s.notifyUpdate(ctx, claim, fmt.Sprintf("Payout of %s %s has been credited to your wallet", model.CurrencyKES, claim.ApprovedAmount.StringFixed(2)))
	return claim, nil
}

func (s *claimService) CloseClaim(ctx context.Context, id string) (*model.Claim, error) {
	claim, err := s.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim.Status == model.ClaimClosed {
		return claim, nil
	}
	claim.Status = model.ClaimClosed
	if err := s.claims.Update(ctx, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

func (s *claimService) TrashClaim(ctx context.Context, id, actorID, reason string) error {
	claim, err := s.GetClaim(ctx, id)
	if err != nil {
		return err
	}
	tr := newTrashState(s.now(), actorID, reason)
	if err := s.claims.Trash(ctx, id, tr); err != nil {
		return err
	}
	if s.search != nil {
		_ = s.search.Deindex(ctx, model.EntityClaim, id)
	}
	return s.trash.Record(ctx, RecordTrashInput{
		EntityType: model.EntityClaim,
		EntityID:   id,
		Title:      claim.ClaimNumber,
		Subtitle:   claim.Status,
		Icon:       "claim",
		ActorID:    actorID,
		Reason:     reason,
		Snapshot:   claim,
		ExpiresAt:  *tr.PermanentDeleteAt,
	})
}

func (s *claimService) ClaimStats(ctx context.Context) (map[string]int, error) {
	return s.claims.CountByStatus(ctx)
}

func (s *claimService) UploadClaimDocument(ctx context.Context, in UploadClaimDocumentInput) (*model.ClaimDocument, error) {
	if in.Title == "" || in.Body == nil {
		return nil, fmt.Errorf("%w: title and body", ErrValidation)
	}
	claim, err := s.GetClaim(ctx, in.ClaimID)
	if err != nil {
		return nil, err
	}
	if in.DocumentType == "" {
		in.DocumentType = model.ClaimDocOther
	}

	key := path.Join("claims", claim.ID, uuid.NewString())
	info, err := s.store.Put(ctx, key, in.Body, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	doc, err := s.documents.Create(ctx, &model.ClaimDocument{
		ClaimID:      claim.ID,
		DocumentType: in.DocumentType,
		Title:        in.Title,
		StorageKey:   info.Key,
		Size:         info.Size,
		ContentType:  in.ContentType,
		Description:  in.Description,
		UploadedByID: in.UploadedByID,
	})
	if err != nil {
		_ = s.store.Delete(ctx, info.Key)
		return nil, err
	}
	return doc, nil
}

func (s *claimService) ListClaimDocuments(ctx context.Context, claimID string) ([]model.ClaimDocument, error) {
	if claimID == "" {
		return nil, ErrIDRequired
	}
	return s.documents.ListByClaim(ctx, claimID)
}

func (s *claimService) ClaimDocumentURL(ctx context.Context, documentID string, expiry time.Duration) (string, error) {
	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		return "", mapNotFound(err)
	}
	return s.store.PresignGet(ctx, doc.StorageKey, expiry)
}

func (s *claimService) DeleteClaimDocument(ctx context.Context, documentID string) error {
	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		return mapNotFound(err)
	}
	if err := s.documents.Delete(ctx, doc.ID); err != nil {
		return err
	}
	return s.store.Delete(ctx, doc.StorageKey)
}

func (s *claimService) AddClaimNote(ctx context.Context, claimID, note string, internal bool, authorID *string) (*model.ClaimNote, error) {
	if note == "" {
		return nil, fmt.Errorf("%w: note", ErrValidation)
	}
	if _, err := s.GetClaim(ctx, claimID); err != nil {
		return nil, err
	}
	return s.notes.Create(ctx, &model.ClaimNote{
		ClaimID:    claimID,
		AuthorID:   authorID,
		Note:       note,
		IsInternal: internal,
	})
}

func (s *claimService) ListClaimNotes(ctx context.Context, claimID string, includeInternal bool) ([]model.ClaimNote, error) {
	if claimID == "" {
		return nil, ErrIDRequired
	}
	return s.notes.ListByClaim(ctx, claimID, includeInternal)
}

// RegisterTrashHandlers wires claim restore and purge into the trash
// registry.
func (s *claimService) RegisterTrashHandlers(trash TrashService) {
	trash.RegisterHandler(model.EntityClaim, TrashHandler{
		Restore: s.claims.Restore,
		Purge:   s.claims.Purge,
	})
}

// RegisterSearchIndexer wires the search index refresh hooks. Refreshes
// are best effort and never fail the triggering write.
func (s *claimService) RegisterSearchIndexer(ix Indexer) {
	s.search = ix
}

func (s *claimService) indexClaim(ctx context.Context, claim *model.Claim) {
	if s.search == nil {
		return
	}
	claimant := claim.ClaimantID
	_ = s.search.Index(ctx, IndexInput{
		EntityType: model.EntityClaim,
		EntityID:   claim.ID,
		Title:      claim.ClaimNumber,
		Subtitle:   claim.Status,
		Content:    claim.IncidentDescription,
		Keywords:   claim.ClaimNumber,
		Icon:       "claim",
		URL:        "/api/v1/claims/" + claim.ID,
		Visibility: model.VisibilityPrivate,
		OwnerID:    &claimant,
		Weight:     8,
	})
}

func (s *claimService) notifyUpdate(ctx context.Context, claim *model.Claim, message string) {
	s.indexClaim(ctx, claim)
	_, _ = s.notifier.Notify(ctx, NotifyInput{
		RecipientID: claim.ClaimantID,
		Type:        model.NotifyInfo,
		Event:       model.EventClaimUpdated,
		Title:       fmt.Sprintf("Claim %s updated", claim.ClaimNumber),
		Message:     message,
		Icon:        "claim",
		EntityType:  model.EntityClaim,
		EntityID:    claim.ID,
	})
}
