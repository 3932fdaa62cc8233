package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vistamar/estate_ledger_app/internal/apperrors"
	"github.com/vistamar/estate_ledger_app/internal/core/domain"
	"github.com/vistamar/estate_ledger_app/internal/core/posting"
	portsrepo "github.com/vistamar/estate_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/vistamar/estate_ledger_app/internal/core/ports/services"
	"github.com/vistamar/estate_ledger_app/internal/utils/accounting"
)

// keywordRule maps description keywords to a canonical account code.
type keywordRule struct {
	keywords   []string
	code       string
	confidence decimal.Decimal
}

var keywordRules = []keywordRule{
	{[]string{"rent", "lease", "tenancy"}, "4000", decimal.NewFromFloat(0.9)},
	{[]string{"deposit"}, "2100", decimal.NewFromFloat(0.8)},
	{[]string{"commission"}, "4300", decimal.NewFromFloat(0.85)},
	{[]string{"service fee", "management fee"}, "4200", decimal.NewFromFloat(0.8)},
	{[]string{"repair", "maintenance", "plumb", "paint"}, "5100", decimal.NewFromFloat(0.85)},
	{[]string{"electric", "water", "gas", "utility", "utilities"}, "5200", decimal.NewFromFloat(0.85)},
	{[]string{"marketing", "advert", "listing"}, "5300", decimal.NewFromFloat(0.8)},
	{[]string{"insurance", "premium"}, "5400", decimal.NewFromFloat(0.85)},
	{[]string{"legal", "lawyer", "notary", "accounting", "audit"}, "5500", decimal.NewFromFloat(0.8)},
	{[]string{"vat", "tax"}, "2200", decimal.NewFromFloat(0.7)},
	{[]string{"purchase", "supplies", "office"}, "5000", decimal.NewFromFloat(0.6)},
	{[]string{"sale", "sold"}, "4100", decimal.NewFromFloat(0.7)},
}

// advisorService runs the advisory heuristic classifiers. Nothing here is
// ever applied automatically; posting does not depend on it.
type advisorService struct {
	BaseService
	accountRepo   portsrepo.AccountRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
	documentRepo  portsrepo.DocumentRepositoryFacade
}

// NewAdvisorService creates a new advisory classifier service.
func NewAdvisorService(accountRepo portsrepo.AccountRepositoryFacade, reportingRepo portsrepo.ReportingRepository, documentRepo portsrepo.DocumentRepositoryFacade) portssvc.AdvisorSvcFacade {
	return &advisorService{
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
		documentRepo:  documentRepo,
	}
}

var _ portssvc.AdvisorSvcFacade = (*advisorService)(nil)

// SuggestAccount proposes accounts for a free-text description, best match
// first. Unknown descriptions yield an empty slice, not an error.
func (s *advisorService) SuggestAccount(ctx context.Context, description string) ([]domain.AccountSuggestion, error) {
	lowered := strings.ToLower(description)

	best := map[string]domain.AccountSuggestion{}
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if !strings.Contains(lowered, kw) {
				continue
			}
			account, err := s.accountRepo.FindAccountByCode(ctx, rule.code)
			if err != nil {
				// A pruned chart simply narrows the suggestion pool.
				continue
			}
			if !account.IsActive {
				continue
			}
			current, ok := best[account.AccountID]
			if ok && current.Confidence.GreaterThanOrEqual(rule.confidence) {
				continue
			}
			best[account.AccountID] = domain.AccountSuggestion{
				AccountID:   account.AccountID,
				AccountCode: account.Code,
				AccountName: account.Name,
				Confidence:  rule.confidence,
				Matched:     kw,
			}
		}
	}

	suggestions := make([]domain.AccountSuggestion, 0, len(best))
	for _, sg := range best {
		suggestions = append(suggestions, sg)
	}
	sort.Slice(suggestions, func(i, j int) bool {
		if !suggestions[i].Confidence.Equal(suggestions[j].Confidence) {
			return suggestions[i].Confidence.GreaterThan(suggestions[j].Confidence)
		}
		return suggestions[i].AccountCode < suggestions[j].AccountCode
	})
	return suggestions, nil
}

// SuggestLines proposes a balanced two-line draft for a description and
// amount. Revenue-like matches credit the suggestion against cash; everything
// else debits it.
func (s *advisorService) SuggestLines(ctx context.Context, description string, amount string) ([]domain.JournalLine, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil || !value.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be a positive number", apperrors.ErrValidation)
	}

	suggestions, err := s.SuggestAccount(ctx, description)
	if err != nil {
		return nil, err
	}
	if len(suggestions) == 0 {
		return nil, nil
	}
	target, err := s.accountRepo.FindAccountByID(ctx, suggestions[0].AccountID)
	if err != nil {
		return nil, err
	}
	cash, err := s.accountRepo.FindAccountByCode(ctx, posting.CodeCash)
	if err != nil {
		return nil, err
	}

	targetLine := domain.JournalLine{AccountID: target.AccountID, Description: description}
	cashLine := domain.JournalLine{AccountID: cash.AccountID, Description: description}
	if target.AccountType.IsDebitNormal() {
		targetLine.Debit = value
		targetLine.Credit = decimal.Zero
		cashLine.Debit = decimal.Zero
		cashLine.Credit = value
	} else {
		targetLine.Debit = decimal.Zero
		targetLine.Credit = value
		cashLine.Debit = value
		cashLine.Credit = decimal.Zero
	}
	return []domain.JournalLine{cashLine, targetLine}, nil
}

// staleDraftAge is how long a draft may sit untouched before it is flagged.
const staleDraftAge = 30 * 24 * time.Hour

// DetectAnomalies flags accounts sitting on their abnormal side, postable
// documents stuck without a journal link, and drafts nobody has touched in a
// month.
func (s *advisorService) DetectAnomalies(ctx context.Context) ([]domain.Anomaly, error) {
	anomalies := []domain.Anomaly{}

	activity, err := s.reportingRepo.GetAccountActivity(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	for _, act := range activity {
		net := accounting.NetBalance(act.AccountType, act.TotalDebit, act.TotalCredit)
		if net.IsNegative() {
			anomalies = append(anomalies, domain.Anomaly{
				Kind:       "ABNORMAL_BALANCE",
				EntityType: "account",
				EntityID:   act.AccountID,
				Description: fmt.Sprintf("account %s %s has a balance of %s on its abnormal side",
					act.AccountCode, act.AccountName, net.Neg()),
			})
		}
	}

	backlog, err := s.documentRepo.ListUnpostedPostable(ctx)
	if err != nil {
		return nil, err
	}
	for _, doc := range backlog {
		anomalies = append(anomalies, domain.Anomaly{
			Kind:       "UNPOSTED_DOCUMENT",
			EntityType: "document",
			EntityID:   doc.DocumentID,
			Description: fmt.Sprintf("document %s is %s but has no journal entry",
				doc.Serial, doc.Status),
		})
	}

	draftStatus := string(domain.DocDraft)
	cutoff := time.Now().UTC().Add(-staleDraftAge)
	drafts, _, err := s.documentRepo.ListDocuments(ctx, portsrepo.DocumentFilter{
		Status: &draftStatus,
		DateTo: &cutoff,
		Limit:  100,
	})
	if err != nil {
		return nil, err
	}
	for _, doc := range drafts {
		anomalies = append(anomalies, domain.Anomaly{
			Kind:       "STALE_DRAFT",
			EntityType: "document",
			EntityID:   doc.DocumentID,
			Description: fmt.Sprintf("draft %s dated %s was never approved or cancelled",
				doc.Serial, doc.DocumentDate.Format("2006-01-02")),
		})
	}
	return anomalies, nil
}
