package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"swadesh-intern/internal/domain/account"
	"swadesh-intern/internal/domain/application"
	"swadesh-intern/internal/domain/certificate"
	"swadesh-intern/internal/domain/job"
	"swadesh-intern/internal/domain/setting"
	"swadesh-intern/internal/domain/site"
	"swadesh-intern/internal/infrastructure/identity"
	"swadesh-intern/internal/infrastructure/inference"
	"swadesh-intern/internal/infrastructure/relay"
	"swadesh-intern/internal/infrastructure/upload"
)

type memCache struct {
	mu          sync.Mutex
	items       map[string][]byte
	invalidated []string
	lockCalls   int
}

func newMemCache() *memCache { return &memCache{items: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memCache) InvalidateJobs(_ context.Context, board string, jobID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, board+"/"+jobID)
	for k := range c.items {
		delete(c.items, k)
	}
	return nil
}

func (c *memCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lockCalls++
	if _, ok := c.items[key]; ok {
		return false, nil
	}
	c.items[key] = []byte(value)
	return true, nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

type fakeJobRepo struct {
	jobs      map[uuid.UUID]job.Job
	listCalls int
	err       error
}

func newFakeJobRepo(items ...job.Job) *fakeJobRepo {
	r := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{}}
	for _, j := range items {
		r.jobs[j.ID] = j
	}
	return r
}

func (r *fakeJobRepo) Create(_ context.Context, j job.Job) (job.Job, error) {
	if r.err != nil {
		return job.Job{}, r.err
	}
	r.jobs[j.ID] = j
	return j, nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}

func (r *fakeJobRepo) List(_ context.Context, board job.Board, limit, offset int) ([]job.Job, error) {
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	out := []job.Job{}
	for _, j := range r.jobs {
		if board == "" || j.Board == board {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Title < out[b].Title })
	if offset >= len(out) {
		return []job.Job{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.jobs[id]; !ok {
		return job.ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) CountByBoard(_ context.Context, board job.Board) (int, error) {
	n := 0
	for _, j := range r.jobs {
		if j.Board == board {
			n++
		}
	}
	return n, nil
}

type fakeAppRepo struct {
	mu    sync.Mutex
	items []application.Application
	err   error
}

func (r *fakeAppRepo) Create(_ context.Context, a application.Application) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return application.Application{}, r.err
	}
	for _, x := range r.items {
		if x.ApplicantID == a.ApplicantID && x.JobID == a.JobID {
			return application.Application{}, application.ErrAlreadyApplied
		}
	}
	a.ID = uuid.New()
	r.items = append(r.items, a)
	return a, nil
}

func (r *fakeAppRepo) Exists(_ context.Context, applicantID string, jobID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.items {
		if x.ApplicantID == applicantID && x.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppRepo) AppliedJobIDs(_ context.Context, applicantID string) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uuid.UUID
	for _, x := range r.items {
		if x.ApplicantID == applicantID {
			out = append(out, x.JobID)
		}
	}
	return out, nil
}

func (r *fakeAppRepo) ListByBoard(_ context.Context, board job.Board, search string, _, _ int) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	search = strings.ToLower(strings.TrimSpace(search))
	var out []application.Application
	for _, x := range r.items {
		if x.Board != board {
			continue
		}
		if search == "" || strings.Contains(strings.ToLower(x.Name), search) || strings.Contains(strings.ToLower(x.JobTitle), search) {
			out = append(out, x)
		}
	}
	return out, nil
}

func (r *fakeAppRepo) ListByApplicant(_ context.Context, applicantID string) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []application.Application
	for _, x := range r.items {
		if x.ApplicantID == applicantID {
			out = append(out, x)
		}
	}
	return out, nil
}

func (r *fakeAppRepo) CountByBoard(ctx context.Context, board job.Board) (int, error) {
	return r.CountMatching(ctx, board, "")
}

func (r *fakeAppRepo) CountMatching(ctx context.Context, board job.Board, search string) (int, error) {
	items, _ := r.ListByBoard(ctx, board, search, 0, 0)
	return len(items), nil
}

type fakeCertRepo struct {
	items map[string]certificate.Certificate
	gets  int
}

func newFakeCertRepo() *fakeCertRepo {
	return &fakeCertRepo{items: map[string]certificate.Certificate{}}
}

func (r *fakeCertRepo) Create(_ context.Context, c certificate.Certificate) (certificate.Certificate, error) {
	if _, ok := r.items[c.ID]; ok {
		return certificate.Certificate{}, certificate.ErrDuplicateID
	}
	r.items[c.ID] = c
	return c, nil
}

func (r *fakeCertRepo) GetByID(_ context.Context, id string) (certificate.Certificate, error) {
	r.gets++
	c, ok := r.items[id]
	if !ok {
		return certificate.Certificate{}, certificate.ErrNotFound
	}
	return c, nil
}

func (r *fakeCertRepo) List(context.Context) ([]certificate.Certificate, error) {
	out := make([]certificate.Certificate, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (r *fakeCertRepo) Count(context.Context) (int, error) { return len(r.items), nil }

type fakeAdminRepo struct {
	items map[string]account.Admin
}

func newFakeAdminRepo(items ...account.Admin) *fakeAdminRepo {
	r := &fakeAdminRepo{items: map[string]account.Admin{}}
	for _, a := range items {
		r.items[a.UserID] = a
	}
	return r
}

func (r *fakeAdminRepo) Get(_ context.Context, userID string) (account.Admin, error) {
	a, ok := r.items[userID]
	if !ok {
		return account.Admin{}, account.ErrNotFound
	}
	return a, nil
}

func (r *fakeAdminRepo) Create(_ context.Context, a account.Admin) (account.Admin, error) {
	if _, ok := r.items[a.UserID]; ok {
		return account.Admin{}, account.ErrAlreadyExists
	}
	r.items[a.UserID] = a
	return a, nil
}

func (r *fakeAdminRepo) Delete(_ context.Context, userID string) error {
	if _, ok := r.items[userID]; !ok {
		return account.ErrNotFound
	}
	delete(r.items, userID)
	return nil
}

func (r *fakeAdminRepo) ListAdmins(context.Context) ([]account.Admin, error) {
	out := make([]account.Admin, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAdminRepo) UpdatePhoto(_ context.Context, userID, photoURL string) error {
	a, ok := r.items[userID]
	if !ok {
		return account.ErrNotFound
	}
	a.PhotoURL = photoURL
	r.items[userID] = a
	return nil
}

func (r *fakeAdminRepo) Count(context.Context) (int, error) { return len(r.items), nil }

type fakeSettingRepo struct {
	sys  setting.System
	gets int
	err  error
}

func (r *fakeSettingRepo) Get(context.Context) (setting.System, error) {
	r.gets++
	return r.sys, r.err
}

func (r *fakeSettingRepo) SetMaintenance(_ context.Context, on bool, updatedBy string) (setting.System, error) {
	r.sys = setting.System{MaintenanceMode: on, UpdatedBy: updatedBy, UpdatedAt: time.Now()}
	return r.sys, nil
}

type fakeSiteRepo struct{}

func (fakeSiteRepo) ListDomains(context.Context) ([]site.Domain, error) {
	return []site.Domain{{Slug: "web-development", Name: "Web Development"}}, nil
}

func (fakeSiteRepo) ListTestimonials(context.Context) ([]site.Testimonial, error) {
	return []site.Testimonial{{Name: "Shikha Yadav", Quote: "Great experience."}}, nil
}

type fakeProvider struct {
	users    map[string]identity.User
	tokens   map[string]string
	password map[string]string
	signOuts []string
	err      error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{users: map[string]identity.User{}, tokens: map[string]string{}, password: map[string]string{}}
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) SignUp(_ context.Context, in identity.SignUpInput) (identity.Session, error) {
	if p.err != nil {
		return identity.Session{}, p.err
	}
	for _, u := range p.users {
		if u.Email == in.Email {
			return identity.Session{}, identity.ErrEmailTaken
		}
	}
	u := identity.User{ID: uuid.NewString(), Email: in.Email, DisplayName: in.Name, Phone: in.Phone}
	p.users[u.ID] = u
	p.password[u.ID] = in.Password
	return p.issue(u), nil
}

func (p *fakeProvider) SignIn(_ context.Context, email, password string) (identity.Session, error) {
	for id, u := range p.users {
		if u.Email == email && p.password[id] == password {
			return p.issue(u), nil
		}
	}
	return identity.Session{}, identity.ErrInvalidCredentials
}

func (p *fakeProvider) SignOut(_ context.Context, token string) error {
	p.signOuts = append(p.signOuts, token)
	delete(p.tokens, token)
	return nil
}

func (p *fakeProvider) Authenticate(_ context.Context, token string) (identity.User, error) {
	id, ok := p.tokens[token]
	if !ok {
		return identity.User{}, identity.ErrInvalidToken
	}
	return p.users[id], nil
}

func (p *fakeProvider) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	u, err := p.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	if p.password[u.ID] != oldPassword {
		return identity.ErrIncorrectPassword
	}
	p.password[u.ID] = newPassword
	return nil
}

func (p *fakeProvider) SendVerification(ctx context.Context, token string) error {
	_, err := p.Authenticate(ctx, token)
	return err
}

func (p *fakeProvider) ConfirmVerification(_ context.Context, verifyToken string) (identity.User, error) {
	u, ok := p.users[verifyToken]
	if !ok {
		return identity.User{}, identity.ErrInvalidToken
	}
	u.EmailVerified = true
	p.users[u.ID] = u
	return u, nil
}

func (p *fakeProvider) issue(u identity.User) identity.Session {
	tok := "tok-" + uuid.NewString()
	p.tokens[tok] = u.ID
	return identity.Session{AccessToken: tok, ExpiresAt: time.Now().Add(time.Hour), User: u}
}

type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (u *fakeUploader) UploadResume(context.Context, application.Resume) (string, error) {
	u.calls++
	return u.url, u.err
}

func (u *fakeUploader) UploadImage(context.Context, upload.File) (string, error) {
	u.calls++
	return u.url, u.err
}

type fakeSender struct {
	sent []relay.Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, m relay.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m)
	return nil
}

type fakeGenerator struct {
	reply   inference.Reply
	err     error
	prompts []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (inference.Reply, error) {
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

type recordedEvent struct {
	Type string
	Data any
}

type fakePublisher struct {
	events []recordedEvent
}

func (p *fakePublisher) Publish(eventType string, data any) {
	p.events = append(p.events, recordedEvent{Type: eventType, Data: data})
}
