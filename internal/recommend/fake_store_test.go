package recommend

import (
	"context"
	"sort"
)

type bookedByCall struct {
	userIDs       []int64
	excludeUserID int64
	limit         int
}

// fakeStore serves preset rows and records how it was queried.
type fakeStore struct {
	history map[int64][]HistoryRow
	workers []Worker
	similar map[int64][]int64
	booked  []Worker

	err error

	historyCalls  int
	similarLimit  int
	bookedByCalls []bookedByCall
}

func (s *fakeStore) BookingHistory(_ context.Context, userID int64) ([]HistoryRow, error) {
	s.historyCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.history[userID], nil
}

func (s *fakeStore) AvailableWorkers(context.Context) ([]Worker, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]Worker, 0, len(s.workers))
	for _, w := range s.workers {
		if w.Available {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *fakeStore) PopularWorkers(ctx context.Context, limit int) ([]Worker, error) {
	out, err := s.AvailableWorkers(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].ReviewsCount > out[j].ReviewsCount
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) SimilarUsers(_ context.Context, userID int64, limit int) ([]int64, error) {
	s.similarLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.similar[userID], nil
}

func (s *fakeStore) WorkersBookedBy(_ context.Context, userIDs []int64, excludeUserID int64, limit int) ([]Worker, error) {
	s.bookedByCalls = append(s.bookedByCalls, bookedByCall{userIDs: userIDs, excludeUserID: excludeUserID, limit: limit})
	if s.err != nil {
		return nil, s.err
	}
	out := s.booked
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func workerIDs(workers []Worker) []int64 {
	ids := make([]int64, 0, len(workers))
	for _, w := range workers {
		ids = append(ids, w.ID)
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
