package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/storage"
	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTx runs fn without a database. It snapshots the store and restores it when fn
// fails, like a rollback.
type fakeTx struct {
	db *memoryDB
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	snapshot := f.db.snapshot()
	if err := fn(nil); err != nil {
		f.db.restore(snapshot)
		return err
	}
	return nil
}

// memoryDB backs every fake repository. Values are copied on the way in and out so the
// services cannot mutate stored rows behind the repository's back.
type memoryDB struct {
	mu           sync.Mutex
	tournaments  map[uuid.UUID]models.Tournament
	participants map[uuid.UUID]models.Participant
	formats      map[uuid.UUID]models.Format
	rounds       map[uuid.UUID]models.Round
	matches      map[uuid.UUID]models.Match
	standings    map[uuid.UUID]models.Standing

	matchUpdates int
	failOn       string
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		tournaments:  map[uuid.UUID]models.Tournament{},
		participants: map[uuid.UUID]models.Participant{},
		formats:      map[uuid.UUID]models.Format{},
		rounds:       map[uuid.UUID]models.Round{},
		matches:      map[uuid.UUID]models.Match{},
		standings:    map[uuid.UUID]models.Standing{},
	}
}

type memorySnapshot struct {
	tournaments  map[uuid.UUID]models.Tournament
	participants map[uuid.UUID]models.Participant
	formats      map[uuid.UUID]models.Format
	rounds       map[uuid.UUID]models.Round
	matches      map[uuid.UUID]models.Match
	standings    map[uuid.UUID]models.Standing
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *memoryDB) snapshot() memorySnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return memorySnapshot{
		tournaments:  copyMap(d.tournaments),
		participants: copyMap(d.participants),
		formats:      copyMap(d.formats),
		rounds:       copyMap(d.rounds),
		matches:      copyMap(d.matches),
		standings:    copyMap(d.standings),
	}
}

func (d *memoryDB) restore(s memorySnapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tournaments = s.tournaments
	d.participants = s.participants
	d.formats = s.formats
	d.rounds = s.rounds
	d.matches = s.matches
	d.standings = s.standings
}

func (d *memoryDB) repos() Repositories {
	return Repositories{
		Tournaments:  &fakeTournamentRepo{d},
		Participants: &fakeParticipantRepo{d},
		Formats:      &fakeFormatRepo{d},
		Rounds:       &fakeRoundRepo{d},
		Matches:      &fakeMatchRepo{d},
		Standings:    &fakeStandingRepo{d},
	}
}

func cloneIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return nil
	}
	return append([]uuid.UUID(nil), ids...)
}

func cloneRound(r models.Round) *models.Round {
	r.MatchIDs = cloneIDs(r.MatchIDs)
	r.ParticipantIDs = cloneIDs(r.ParticipantIDs)
	r.Winners = append(models.RoundWinners{}, r.Winners...)
	return &r
}

func cloneFormat(f models.Format) *models.Format {
	f.RoundNames = append([]string(nil), f.RoundNames...)
	f.RoundIDs = cloneIDs(f.RoundIDs)
	f.ParticipantIDs = cloneIDs(f.ParticipantIDs)
	f.StandingIDs = cloneIDs(f.StandingIDs)
	return &f
}

type fakeTournamentRepo struct{ db *memoryDB }

func (r *fakeTournamentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.tournaments {
		if existing.Name == t.Name && existing.OrganizerID != nil && t.OrganizerID != nil && *existing.OrganizerID == *t.OrganizerID {
			return repositories.ErrTournamentNameConflict
		}
	}
	c := *t
	c.Format, c.Participants, c.Rounds, c.Matches, c.Standings = nil, nil, nil, nil, nil
	r.db.tournaments[t.ID] = c
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.Tournament, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (r *fakeTournamentRepo) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.Tournament, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeTournamentRepo) List(ctx context.Context, exec repositories.SQLExecutor, filter repositories.ListTournamentsFilter) ([]*models.Tournament, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*models.Tournament
	for _, t := range r.db.tournaments {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.FormatName != nil && t.FormatName != *filter.FormatName {
			continue
		}
		c := t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if filter.Offset < len(out) {
		out = out[filter.Offset:]
	} else {
		out = nil
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeTournamentRepo) Update(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	c := *t
	c.Format, c.Participants, c.Rounds, c.Matches, c.Standings = nil, nil, nil, nil, nil
	r.db.tournaments[t.ID] = c
	return nil
}

type fakeParticipantRepo struct{ db *memoryDB }

func (r *fakeParticipantRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, participants []*models.Participant) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range participants {
		r.db.participants[p.ID] = *p
	}
	return nil
}

func (r *fakeParticipantRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.Participant, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	return &p, nil
}

func (r *fakeParticipantRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID) ([]*models.Participant, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*models.Participant
	for _, p := range r.db.participants {
		if p.TournamentID == tournamentID {
			c := p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeParticipantRepo) UpdatePosition(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, position int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.Position = position
	r.db.participants[id] = p
	return nil
}

func (r *fakeParticipantRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.participants[id]; !ok {
		return repositories.ErrParticipantNotFound
	}
	delete(r.db.participants, id)
	return nil
}

type fakeFormatRepo struct{ db *memoryDB }

func (r *fakeFormatRepo) Create(ctx context.Context, exec repositories.SQLExecutor, f *models.Format) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.formats[f.ID] = *cloneFormat(*f)
	return nil
}

func (r *fakeFormatRepo) GetByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID) (*models.Format, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, f := range r.db.formats {
		if f.TournamentID == tournamentID {
			return cloneFormat(f), nil
		}
	}
	return nil, repositories.ErrFormatNotFound
}

func (r *fakeFormatRepo) Update(ctx context.Context, exec repositories.SQLExecutor, f *models.Format) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.formats[f.ID]; !ok {
		return repositories.ErrFormatNotFound
	}
	r.db.formats[f.ID] = *cloneFormat(*f)
	return nil
}

func (r *fakeFormatRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, f := range r.db.formats {
		if f.TournamentID == tournamentID {
			delete(r.db.formats, id)
		}
	}
	return nil
}

type fakeRoundRepo struct{ db *memoryDB }

func (r *fakeRoundRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, rounds []*models.Round) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rd := range rounds {
		r.db.rounds[rd.ID] = *cloneRound(*rd)
	}
	return nil
}

var bracketOrder = map[models.BracketTag]int{models.BracketWinners: 0, models.BracketLosers: 1, models.BracketFinal: 2}

func (r *fakeRoundRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID) ([]*models.Round, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*models.Round
	for _, rd := range r.db.rounds {
		if rd.TournamentID == tournamentID {
			out = append(out, cloneRound(rd))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bracket != out[j].Bracket {
			return bracketOrder[out[i].Bracket] < bracketOrder[out[j].Bracket]
		}
		return out[i].RoundNumber < out[j].RoundNumber
	})
	return out, nil
}

func (r *fakeRoundRepo) Update(ctx context.Context, exec repositories.SQLExecutor, rd *models.Round) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.rounds[rd.ID]; !ok {
		return repositories.ErrRoundNotFound
	}
	r.db.rounds[rd.ID] = *cloneRound(*rd)
	return nil
}

// DeleteByTournament cascades to the matches of the deleted rounds.
func (r *fakeRoundRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, rd := range r.db.rounds {
		if rd.TournamentID != tournamentID {
			continue
		}
		for _, mID := range rd.MatchIDs {
			delete(r.db.matches, mID)
		}
		delete(r.db.rounds, id)
	}
	return nil
}

type fakeMatchRepo struct{ db *memoryDB }

func (r *fakeMatchRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, matches []*models.Match) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range matches {
		r.db.matches[m.ID] = *m
	}
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) (*models.Match, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return &m, nil
}

// ListByTournament returns matches in map order; the store must sort them itself.
func (r *fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID) ([]*models.Match, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*models.Match
	for _, m := range r.db.matches {
		if m.TournamentID == tournamentID {
			c := m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) Update(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failOn == "match_update" {
		return repositories.ErrNotAbleToCreate
	}
	if _, ok := r.db.matches[m.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	r.db.matches[m.ID] = *m
	r.db.matchUpdates++
	return nil
}

type fakeStandingRepo struct{ db *memoryDB }

func (r *fakeStandingRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, standings []*models.Standing) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, st := range standings {
		r.db.standings[st.ID] = *st
	}
	return nil
}

func (r *fakeStandingRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID) ([]*models.Standing, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*models.Standing
	for _, st := range r.db.standings {
		if st.TournamentID == tournamentID {
			c := st
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeStandingRepo) Update(ctx context.Context, exec repositories.SQLExecutor, st *models.Standing) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.standings[st.ID]; !ok {
		return repositories.ErrStandingNotFound
	}
	r.db.standings[st.ID] = *st
	return nil
}

func (r *fakeStandingRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, st := range r.db.standings {
		if st.TournamentID == tournamentID {
			delete(r.db.standings, id)
		}
	}
	return nil
}

type publishedEvent struct {
	TournamentID uuid.UUID
	Type         string
	Payload      interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (n *recordingNotifier) Publish(tournamentID uuid.UUID, eventType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, publishedEvent{TournamentID: tournamentID, Type: eventType, Payload: payload})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.objects == nil {
		u.objects = map[string][]byte{}
	}
	u.objects[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}
