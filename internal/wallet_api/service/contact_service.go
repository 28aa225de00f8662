package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"github.com/wallet-ledger/internal/domain/contact"
	"github.com/wallet-ledger/internal/domain/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSearchLimit caps search results when the caller gives no limit
const DefaultSearchLimit = 10

// ContactServiceImpl implements the ContactService interface
type ContactServiceImpl struct {
	contactRepo contact.Repository
	transport   Transport
	events      EventDispatcher
	logger      *slog.Logger
}

// NewContactService creates a new contact service
func NewContactService(logger *slog.Logger, contactRepo contact.Repository, transport Transport, events EventDispatcher) ContactService {
	return &ContactServiceImpl{
		contactRepo: contactRepo,
		transport:   transport,
		events:      events,
		logger:      logger.With("component", "contact_service"),
	}
}

func (s *ContactServiceImpl) ListContacts(ctx context.Context) ([]contact.Contact, error) {
	if err := s.transport.Get(ctx, "/contacts").Err(); err != nil {
		return nil, err
	}
	return s.contactRepo.List(ctx)
}

func (s *ContactServiceImpl) GetContact(ctx context.Context, id string) (*contact.Contact, error) {
	if err := s.transport.Get(ctx, "/contacts/"+id).Err(); err != nil {
		return nil, err
	}
	return s.contactRepo.GetByID(ctx, id)
}

// AddContact stores a new contact with a generated id and derived initials
func (s *ContactServiceImpl) AddContact(ctx context.Context, input NewContactInput) (*contact.Contact, error) {
	c, err := contact.NewContact(uuid.NewString(), input.Name, strings.TrimSpace(input.Email), strings.TrimSpace(input.Phone), input.HasWalletAccount)
	if err != nil {
		return nil, shared.ErrValidation{Field: "name", Reason: "is required"}
	}

	if err := s.transport.Post(ctx, "/contacts", input).Err(); err != nil {
		return nil, err
	}

	if err := s.contactRepo.Save(ctx, c); err != nil {
		s.logger.Error("Failed to save contact", "name", c.Name, "error", err)
		return nil, err
	}

	s.logger.Info("Contact added", "contact_id", c.ID, "initials", c.Initials)
	s.events.Dispatch(ctx, shared.EventContactAdded, c.ID, c)

	return c, nil
}

type scoredContact struct {
	contact contact.Contact
	score   int
}

// SearchContacts matches query against every word of each name. A substring hit scores 0,
// otherwise the best Levenshtein distance to a word counts when it is small enough
// relative to the query length. Results are ordered by score, then name.
func (s *ContactServiceImpl) SearchContacts(ctx context.Context, query string, limit int) ([]contact.Contact, error) {
	q := foldName(query)
	if q == "" {
		return nil, shared.ErrValidation{Field: "q", Reason: "is required"}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	if err := s.transport.Get(ctx, "/contacts/search").Err(); err != nil {
		return nil, err
	}

	contacts, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]scoredContact, 0, len(contacts))
	for _, c := range contacts {
		if score, ok := matchScore(q, foldName(c.Name)); ok {
			matches = append(matches, scoredContact{contact: c, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score < matches[j].score
		}
		return matches[i].contact.Name < matches[j].contact.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	result := make([]contact.Contact, len(matches))
	for i, m := range matches {
		result[i] = m.contact
	}

	s.logger.Debug("Contact search", "query", query, "matches", len(result))
	return result, nil
}

func matchScore(query, name string) (int, bool) {
	if strings.Contains(name, query) {
		return 0, true
	}

	// Allow roughly one typo per three characters of the query
	maxDistance := len([]rune(query)) / 3
	if maxDistance < 1 {
		maxDistance = 1
	}

	best := -1
	candidates := append(strings.Fields(name), name)
	for _, word := range candidates {
		d := levenshtein.ComputeDistance(query, word)
		if best < 0 || d < best {
			best = d
		}
	}
	if best >= 0 && best <= maxDistance {
		return best, true
	}
	return 0, false
}

// foldName lower-cases s and strips diacritics, so "Martínez" matches "martinez"
func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
