package stats

import (
	"context"
	"sort"
	"time"
)

const trendMonths = 12

type Service struct {
	repo          Repository
	dueSoonWindow time.Duration
	now           func() time.Time
}

func NewService(repo Repository, dueSoonWindow time.Duration) *Service {
	return &Service{repo: repo, dueSoonWindow: dueSoonWindow, now: time.Now}
}

// SetClock replaces the time source used for due-soon and trend windows.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) LibraryStats(ctx context.Context) (LibraryStats, error) {
	return s.repo.LibraryStats(ctx, s.now())
}

// ProgramStats counts books per program, known programs first.
func (s *Service) ProgramStats(ctx context.Context) ([]ProgramCount, error) {
	counts, err := s.repo.BooksPerProgram(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ProgramCount, 0, len(KnownPrograms)+len(counts))
	seen := make(map[string]bool, len(KnownPrograms))
	for _, p := range KnownPrograms {
		out = append(out, ProgramCount{Program: p, Count: counts[p]})
		seen[p] = true
	}

	var others []string
	for p := range counts {
		if !seen[p] && p != "" {
			others = append(others, p)
		}
	}
	sort.Strings(others)
	for _, p := range others {
		out = append(out, ProgramCount{Program: p, Count: counts[p]})
	}
	return out, nil
}

func (s *Service) BorrowedBookStats(ctx context.Context) (BorrowedBookStats, error) {
	now := s.now()
	c, err := s.repo.BorrowCounts(ctx, now, now.Add(s.dueSoonWindow))
	if err != nil {
		return BorrowedBookStats{}, err
	}
	return BorrowedBookStats{
		TotalBorrowedBooks: c.Borrowed,
		TotalOverdueBooks:  c.Overdue,
		PendingRequests:    c.PendingBorrows + c.PendingRequests,
		DueSoon:            c.DueSoon,
	}, nil
}

// BorrowingTrends returns loans issued per month over the trailing year,
// oldest first, with empty months as zero.
func (s *Service) BorrowingTrends(ctx context.Context) ([]MonthCount, error) {
	now := s.now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(trendMonths - 1), 0)

	counts, err := s.repo.IssuedPerMonth(ctx, first)
	if err != nil {
		return nil, err
	}

	out := make([]MonthCount, 0, trendMonths)
	for i := 0; i < trendMonths; i++ {
		m := first.AddDate(0, i, 0)
		key := m.Format("2006-01")
		out = append(out, MonthCount{Month: key, Label: m.Format("Jan 2006"), Count: counts[key]})
	}
	return out, nil
}

// Students lists students with their activity status.
func (s *Service) Students(ctx context.Context, q StudentQuery) ([]StudentSummary, error) {
	items, err := s.repo.Students(ctx, q, s.now())
	if err != nil {
		return nil, err
	}
	for i := range items {
		switch {
		case items[i].OverdueCount > 0:
			items[i].Status = StudentOverdue
		case items[i].BorrowedCount > 0:
			items[i].Status = StudentActive
		default:
			items[i].Status = StudentInactive
		}
	}
	if items == nil {
		items = []StudentSummary{}
	}
	return items, nil
}
