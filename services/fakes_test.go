package services_test

import (
	"context"
	"errors"
	"io"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/repositories"
	"github.com/Dosada05/sportsmeet/standings"
	"github.com/Dosada05/sportsmeet/storage"
)

// memStore is an in-memory stand-in for the Postgres schema.
type memStore struct {
	nextID int

	faculties    map[int]models.Faculty
	sports       map[int]models.Sport
	results      map[int]models.Result
	placements   map[int][]models.Placement
	participants map[int][]models.Participant
	points       map[int]models.FacultyPoints
	media        map[int]models.Media
	users        map[string]models.User

	// faculty ids in the order their counters were written
	counterWrites []int

	// injected failures
	failSubtract        error
	failPlacementInsert error
}

func newMemStore() *memStore {
	return &memStore{
		nextID:       100,
		faculties:    map[int]models.Faculty{},
		sports:       map[int]models.Sport{},
		results:      map[int]models.Result{},
		placements:   map[int][]models.Placement{},
		participants: map[int][]models.Participant{},
		points:       map[int]models.FacultyPoints{},
		media:        map[int]models.Media{},
		users:        map[string]models.User{},
	}
}

func (s *memStore) newID() int {
	s.nextID++
	return s.nextID
}

type memSnapshot struct {
	results      map[int]models.Result
	placements   map[int][]models.Placement
	participants map[int][]models.Participant
	points       map[int]models.FacultyPoints
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		results:      maps.Clone(s.results),
		placements:   map[int][]models.Placement{},
		participants: map[int][]models.Participant{},
		points:       maps.Clone(s.points),
	}
	for k, v := range s.placements {
		snap.placements[k] = slices.Clone(v)
	}
	for k, v := range s.participants {
		snap.participants[k] = slices.Clone(v)
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.results = snap.results
	s.placements = snap.placements
	s.participants = snap.participants
	s.points = snap.points
}

func (s *memStore) addFaculty(id int, name string) {
	s.faculties[id] = models.Faculty{ID: id, Name: name, CreatedAt: time.Now()}
}

func (s *memStore) addSport(id int, name string, category models.ResultCategory) {
	s.sports[id] = models.Sport{ID: id, Name: name, Category: category}
}

// seedResult stores a result and its entries without touching any counter.
func (s *memStore) seedResult(r models.Result, placements []models.Placement, participants []models.Participant) int {
	if r.ID == 0 {
		r.ID = s.newID()
	}
	if r.PointsMode == "" {
		r.PointsMode = models.PointsModeOverallOnly
	}
	if r.Category == "" {
		r.Category = models.CategoryTeam
	}
	if r.SportID == 0 {
		r.SportID = 1
	}
	s.results[r.ID] = r
	for i := range placements {
		placements[i].ResultID = r.ID
	}
	for i := range participants {
		participants[i].ResultID = r.ID
	}
	s.placements[r.ID] = placements
	s.participants[r.ID] = participants
	return r.ID
}

func (s *memStore) pointsOf(facultyID int) models.FacultyPoints {
	p := s.points[facultyID]
	p.FacultyID = facultyID
	p.UpdatedAt = time.Time{}
	return p
}

// fakeTx undoes every change of a failed unit of work.
type fakeTx struct {
	store *memStore
}

func (t *fakeTx) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	snap := t.store.snapshot()
	if err := fn(nil); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

func (t *fakeTx) Savepoint(ctx context.Context, exec repositories.SQLExecutor, name string, fn func() error) error {
	snap := t.store.snapshot()
	if err := fn(); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type fakeResultRepo struct{ s *memStore }

func (r *fakeResultRepo) Create(ctx context.Context, exec repositories.SQLExecutor, result *models.Result) error {
	if _, ok := r.s.sports[result.SportID]; !ok {
		return repositories.ErrResultSportInvalid
	}
	result.ID = r.s.newID()
	result.CreatedAt = time.Now()
	result.UpdatedAt = result.CreatedAt
	stored := *result
	stored.Placements, stored.Participants, stored.Sport = nil, nil, nil
	r.s.results[result.ID] = stored
	return nil
}

func (r *fakeResultRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Result, error) {
	result, ok := r.s.results[id]
	if !ok {
		return nil, repositories.ErrResultNotFound
	}
	return &result, nil
}

func (r *fakeResultRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Result, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeResultRepo) List(ctx context.Context, exec repositories.SQLExecutor, filter models.ResultFilter) ([]models.Result, error) {
	out := make([]models.Result, 0)
	for _, result := range r.s.results {
		if filter.SportID != nil && result.SportID != *filter.SportID {
			continue
		}
		if filter.Gender != nil && result.Gender != *filter.Gender {
			continue
		}
		if filter.Category != nil && result.Category != *filter.Category {
			continue
		}
		if filter.OverallOnly && !result.IsOverall() {
			continue
		}
		out = append(out, result)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EventDate.Equal(out[j].EventDate) {
			return out[i].EventDate.After(out[j].EventDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *fakeResultRepo) ListIDs(ctx context.Context, exec repositories.SQLExecutor) ([]int, error) {
	ids := slices.Collect(maps.Keys(r.s.results))
	slices.Sort(ids)
	return ids, nil
}

func (r *fakeResultRepo) Update(ctx context.Context, exec repositories.SQLExecutor, result *models.Result) error {
	if _, ok := r.s.results[result.ID]; !ok {
		return repositories.ErrResultNotFound
	}
	if _, ok := r.s.sports[result.SportID]; !ok {
		return repositories.ErrResultSportInvalid
	}
	result.UpdatedAt = time.Now()
	stored := *result
	stored.Placements, stored.Participants, stored.Sport = nil, nil, nil
	// points_applied is only written by SetPointsApplied
	stored.PointsApplied = r.s.results[result.ID].PointsApplied
	r.s.results[result.ID] = stored
	return nil
}

func (r *fakeResultRepo) SetPointsApplied(ctx context.Context, exec repositories.SQLExecutor, id int, applied bool) error {
	result, ok := r.s.results[id]
	if !ok {
		return repositories.ErrResultNotFound
	}
	result.PointsApplied = applied
	r.s.results[id] = result
	return nil
}

func (r *fakeResultRepo) UpdatePolicy(ctx context.Context, exec repositories.SQLExecutor, id int, policy models.PointsPolicy) error {
	result, ok := r.s.results[id]
	if !ok {
		return repositories.ErrResultNotFound
	}
	result.CustomPoints = policy.CustomPoints
	result.PointsMode = policy.Mode
	r.s.results[id] = result
	return nil
}

func (r *fakeResultRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.s.results[id]; !ok {
		return repositories.ErrResultNotFound
	}
	delete(r.s.results, id)
	return nil
}

func (r *fakeResultRepo) Count(ctx context.Context, overallOnly bool) (int, error) {
	n := 0
	for _, result := range r.s.results {
		if !overallOnly || result.IsOverall() {
			n++
		}
	}
	return n, nil
}

type fakePlacementRepo struct{ s *memStore }

func (r *fakePlacementRepo) ListByResult(ctx context.Context, exec repositories.SQLExecutor, resultID int) ([]models.Placement, error) {
	out := slices.Clone(r.s.placements[resultID])
	for i := range out {
		out[i].FacultyName = r.s.faculties[out[i].FacultyID].Name
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Place != out[j].Place {
			return out[i].Place < out[j].Place
		}
		return out[i].FacultyID < out[j].FacultyID
	})
	return out, nil
}

func (r *fakePlacementRepo) DeleteByResult(ctx context.Context, exec repositories.SQLExecutor, resultID int) error {
	delete(r.s.placements, resultID)
	return nil
}

func (r *fakePlacementRepo) BatchCreate(ctx context.Context, exec repositories.SQLExecutor, resultID int, placements []models.Placement) error {
	if r.s.failPlacementInsert != nil {
		return r.s.failPlacementInsert
	}
	for _, p := range placements {
		if _, ok := r.s.faculties[p.FacultyID]; !ok {
			return repositories.ErrPlacementFacultyInvalid
		}
		p.ResultID = resultID
		p.FacultyName = ""
		r.s.placements[resultID] = append(r.s.placements[resultID], p)
	}
	return nil
}

type fakeParticipantRepo struct{ s *memStore }

func (r *fakeParticipantRepo) ListByResult(ctx context.Context, exec repositories.SQLExecutor, resultID int) ([]models.Participant, error) {
	out := slices.Clone(r.s.participants[resultID])
	for i := range out {
		out[i].FacultyName = r.s.faculties[out[i].FacultyID].Name
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FacultyID < out[j].FacultyID })
	return out, nil
}

func (r *fakeParticipantRepo) DeleteByResult(ctx context.Context, exec repositories.SQLExecutor, resultID int) error {
	delete(r.s.participants, resultID)
	return nil
}

func (r *fakeParticipantRepo) BatchCreate(ctx context.Context, exec repositories.SQLExecutor, resultID int, participants []models.Participant) error {
	for _, p := range participants {
		if _, ok := r.s.faculties[p.FacultyID]; !ok {
			return repositories.ErrParticipantFacultyInvalid
		}
		p.ResultID = resultID
		p.FacultyName = ""
		r.s.participants[resultID] = append(r.s.participants[resultID], p)
	}
	return nil
}

type fakePointsRepo struct{ s *memStore }

func (r *fakePointsRepo) AddPoints(ctx context.Context, exec repositories.SQLExecutor, facultyID int, delta models.PointsDelta) error {
	if _, ok := r.s.faculties[facultyID]; !ok {
		return repositories.ErrFacultyPointsFacultyInvalid
	}
	r.s.counterWrites = append(r.s.counterWrites, facultyID)
	p := r.s.points[facultyID]
	p.FacultyID = facultyID
	r.s.points[facultyID] = standings.ApplyDelta(p, delta, false)
	return nil
}

func (r *fakePointsRepo) SubtractPoints(ctx context.Context, exec repositories.SQLExecutor, facultyID int, delta models.PointsDelta) error {
	if r.s.failSubtract != nil {
		return r.s.failSubtract
	}
	r.s.counterWrites = append(r.s.counterWrites, facultyID)
	p, ok := r.s.points[facultyID]
	if !ok {
		return nil
	}
	r.s.points[facultyID] = standings.ApplyDelta(p, delta, true)
	return nil
}

func (r *fakePointsRepo) GetByFaculty(ctx context.Context, exec repositories.SQLExecutor, facultyID int) (*models.FacultyPoints, error) {
	p, ok := r.s.points[facultyID]
	if !ok {
		return nil, repositories.ErrFacultyPointsNotFound
	}
	return &p, nil
}

func (r *fakePointsRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]models.FacultyPoints, error) {
	out := slices.Collect(maps.Values(r.s.points))
	sort.Slice(out, func(i, j int) bool { return out[i].FacultyID < out[j].FacultyID })
	return out, nil
}

func (r *fakePointsRepo) ResetAll(ctx context.Context, exec repositories.SQLExecutor) error {
	for id, p := range r.s.points {
		p.MensPoints, p.WomensPoints = 0, 0
		r.s.points[id] = p
	}
	return nil
}

type fakeFacultyRepo struct{ s *memStore }

func (r *fakeFacultyRepo) Create(ctx context.Context, faculty *models.Faculty) error {
	for _, f := range r.s.faculties {
		if f.Name == faculty.Name {
			return repositories.ErrFacultyNameConflict
		}
	}
	faculty.ID = r.s.newID()
	faculty.CreatedAt = time.Now()
	r.s.faculties[faculty.ID] = *faculty
	return nil
}

func (r *fakeFacultyRepo) GetByID(ctx context.Context, id int) (*models.Faculty, error) {
	f, ok := r.s.faculties[id]
	if !ok {
		return nil, repositories.ErrFacultyNotFound
	}
	return &f, nil
}

func (r *fakeFacultyRepo) GetAll(ctx context.Context) ([]models.Faculty, error) {
	out := slices.Collect(maps.Values(r.s.faculties))
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeFacultyRepo) Update(ctx context.Context, faculty *models.Faculty) error {
	current, ok := r.s.faculties[faculty.ID]
	if !ok {
		return repositories.ErrFacultyNotFound
	}
	for _, f := range r.s.faculties {
		if f.ID != faculty.ID && f.Name == faculty.Name {
			return repositories.ErrFacultyNameConflict
		}
	}
	current.Name, current.ShortName = faculty.Name, faculty.ShortName
	r.s.faculties[faculty.ID] = current
	return nil
}

func (r *fakeFacultyRepo) UpdateLogoKey(ctx context.Context, facultyID int, logoKey *string) error {
	f, ok := r.s.faculties[facultyID]
	if !ok {
		return repositories.ErrFacultyNotFound
	}
	f.LogoKey = logoKey
	r.s.faculties[facultyID] = f
	return nil
}

func (r *fakeFacultyRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.s.faculties[id]; !ok {
		return repositories.ErrFacultyNotFound
	}
	for _, list := range r.s.placements {
		for _, p := range list {
			if p.FacultyID == id {
				return repositories.ErrFacultyInUse
			}
		}
	}
	delete(r.s.faculties, id)
	delete(r.s.points, id)
	return nil
}

func (r *fakeFacultyRepo) Count(ctx context.Context) (int, error) {
	return len(r.s.faculties), nil
}

type fakeSportRepo struct{ s *memStore }

func (r *fakeSportRepo) Create(ctx context.Context, sport *models.Sport) error {
	for _, sp := range r.s.sports {
		if sp.Name == sport.Name {
			return repositories.ErrSportNameConflict
		}
	}
	sport.ID = r.s.newID()
	r.s.sports[sport.ID] = *sport
	return nil
}

func (r *fakeSportRepo) GetByID(ctx context.Context, id int) (*models.Sport, error) {
	sp, ok := r.s.sports[id]
	if !ok {
		return nil, repositories.ErrSportNotFound
	}
	return &sp, nil
}

func (r *fakeSportRepo) GetAll(ctx context.Context) ([]models.Sport, error) {
	out := slices.Collect(maps.Values(r.s.sports))
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeSportRepo) Update(ctx context.Context, sport *models.Sport) error {
	current, ok := r.s.sports[sport.ID]
	if !ok {
		return repositories.ErrSportNotFound
	}
	current.Name, current.Category = sport.Name, sport.Category
	r.s.sports[sport.ID] = current
	return nil
}

func (r *fakeSportRepo) UpdateLogoKey(ctx context.Context, sportID int, logoKey *string) error {
	sp, ok := r.s.sports[sportID]
	if !ok {
		return repositories.ErrSportNotFound
	}
	sp.LogoKey = logoKey
	r.s.sports[sportID] = sp
	return nil
}

func (r *fakeSportRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.s.sports[id]; !ok {
		return repositories.ErrSportNotFound
	}
	for _, result := range r.s.results {
		if result.SportID == id {
			return repositories.ErrSportInUse
		}
	}
	delete(r.s.sports, id)
	return nil
}

func (r *fakeSportRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, sp := range r.s.sports {
		if sp.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSportRepo) Count(ctx context.Context) (int, error) {
	return len(r.s.sports), nil
}

type fakeMediaRepo struct{ s *memStore }

func (r *fakeMediaRepo) Create(ctx context.Context, media *models.Media) error {
	if media.SportID != nil {
		if _, ok := r.s.sports[*media.SportID]; !ok {
			return repositories.ErrMediaSportInvalid
		}
	}
	media.ID = r.s.newID()
	media.CreatedAt = time.Now()
	r.s.media[media.ID] = *media
	return nil
}

func (r *fakeMediaRepo) GetByID(ctx context.Context, id int) (*models.Media, error) {
	m, ok := r.s.media[id]
	if !ok {
		return nil, repositories.ErrMediaNotFound
	}
	return &m, nil
}

func (r *fakeMediaRepo) List(ctx context.Context, sportID *int) ([]models.Media, error) {
	out := make([]models.Media, 0)
	for _, m := range r.s.media {
		if sportID != nil && (m.SportID == nil || *m.SportID != *sportID) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeMediaRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.s.media[id]; !ok {
		return repositories.ErrMediaNotFound
	}
	delete(r.s.media, id)
	return nil
}

func (r *fakeMediaRepo) Count(ctx context.Context) (int, error) {
	return len(r.s.media), nil
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, ok := r.s.users[user.Email]; ok {
		return repositories.ErrUserEmailConflict
	}
	return r.Upsert(ctx, user)
}

func (r *fakeUserRepo) Upsert(ctx context.Context, user *models.User) error {
	if existing, ok := r.s.users[user.Email]; ok {
		user.ID, user.CreatedAt = existing.ID, existing.CreatedAt
	} else {
		user.ID = r.s.newID()
		user.CreatedAt = time.Now()
	}
	r.s.users[user.Email] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	for _, u := range r.s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := r.s.users[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id int) error {
	for email, u := range r.s.users {
		if u.ID == id {
			delete(r.s.users, email)
			return nil
		}
	}
	return repositories.ErrUserNotFound
}

// fakeUploader keeps objects in memory.
type fakeUploader struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	failWrite error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string][]byte{}}
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.failWrite != nil {
		return nil, u.failWrite
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = data
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.objects[key]; !ok {
		return errors.New("no such object")
	}
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return storage.PublicURL("https://cdn.example.com", key)
}

type recordingObserver struct {
	operations map[string]int
	failures   map[string]int
	added      int
	removed    int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{operations: map[string]int{}, failures: map[string]int{}}
}

func (o *recordingObserver) ObservePointsOperation(operation string, err error) {
	o.operations[operation]++
	if err != nil {
		o.failures[operation]++
	}
}

func (o *recordingObserver) ObserveAllocation(alloc *models.PointsAllocation, removed bool) {
	for _, d := range alloc.Deltas {
		if removed {
			o.removed += d.Delta.Mens + d.Delta.Womens
		} else {
			o.added += d.Delta.Mens + d.Delta.Womens
		}
	}
}
