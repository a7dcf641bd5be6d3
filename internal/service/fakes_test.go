package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
	"github.com/aliskhannn/medcourse-bot/internal/infra/postgres/repository"
)

var errStoreDown = errors.New("connection refused")

type fakeRegimenRepo struct {
	mu       sync.Mutex
	regimens map[uuid.UUID]*entities.Regimen
	extra    []int64 // owners known only through settings
	listErr  error
}

func newFakeRegimenRepo(regs ...*entities.Regimen) *fakeRegimenRepo {
	r := &fakeRegimenRepo{regimens: make(map[uuid.UUID]*entities.Regimen)}
	for _, reg := range regs {
		r.regimens[reg.ID] = reg
	}
	return r
}

func (r *fakeRegimenRepo) Insert(_ context.Context, reg *entities.Regimen) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return uuid.Nil, r.listErr
	}
	if _, ok := r.regimens[reg.ID]; ok {
		return uuid.Nil, repository.ErrRegimenExists
	}
	cp := *reg
	r.regimens[reg.ID] = &cp
	return reg.ID, nil
}

func (r *fakeRegimenRepo) Get(_ context.Context, id uuid.UUID) (*entities.Regimen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regimens[id]
	if !ok {
		return nil, repository.ErrRegimenNotFound
	}
	cp := *reg
	return &cp, nil
}

func (r *fakeRegimenRepo) ListByOwner(_ context.Context, ownerID int64) ([]*entities.Regimen, error) {
	all, err := r.ListAll(context.Background())
	if err != nil {
		return nil, err
	}
	var out []*entities.Regimen
	for _, reg := range all {
		if reg.OwnerID == ownerID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (r *fakeRegimenRepo) ListAll(_ context.Context) ([]*entities.Regimen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*entities.Regimen, 0, len(r.regimens))
	for _, reg := range r.regimens {
		cp := *reg
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeRegimenRepo) UpdateFields(_ context.Context, id uuid.UUID, fn func(reg *entities.Regimen) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regimens[id]
	if !ok {
		return repository.ErrRegimenNotFound
	}
	cp := *reg
	if err := fn(&cp); err != nil {
		return err
	}
	r.regimens[id] = &cp
	return nil
}

func (r *fakeRegimenRepo) Delete(_ context.Context, ownerID int64, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regimens[id]
	if !ok || reg.OwnerID != ownerID {
		return repository.ErrRegimenNotFound
	}
	delete(r.regimens, id)
	return nil
}

func (r *fakeRegimenRepo) AllOwners(_ context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	seen := make(map[int64]struct{})
	var out []int64
	add := func(id int64) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, reg := range r.regimens {
		add(reg.OwnerID)
	}
	for _, id := range r.extra {
		add(id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

type fakeSettingsRepo struct {
	mu    sync.Mutex
	signs map[int64]entities.ZodiacSign
	err   error
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{signs: make(map[int64]entities.ZodiacSign)}
}

func (r *fakeSettingsRepo) Ensure(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.signs[userID]; !ok {
		r.signs[userID] = ""
	}
	return nil
}

func (r *fakeSettingsRepo) SetZodiac(_ context.Context, userID int64, sign entities.ZodiacSign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.signs[userID] = sign
	return nil
}

func (r *fakeSettingsRepo) GetByUserID(_ context.Context, userID int64) (*entities.UserSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	sign, ok := r.signs[userID]
	if !ok {
		return nil, repository.ErrSettingsNotFound
	}
	s := &entities.UserSettings{UserID: userID}
	if sign != "" {
		s.ZodiacSign = &sign
	}
	return s, nil
}

type sentMessage struct {
	to     int64
	text   string
	format Format
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	errs map[int64]error
}

func (n *fakeNotifier) Send(_ context.Context, recipientID int64, text string, format Format) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.errs[recipientID]; ok {
		return err
	}
	n.sent = append(n.sent, sentMessage{to: recipientID, text: text, format: format})
	return nil
}

func (n *fakeNotifier) messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]sentMessage, len(n.sent))
	copy(out, n.sent)
	sort.Slice(out, func(i, j int) bool { return out[i].to < out[j].to })
	return out
}

type fakeContent struct {
	mu         sync.Mutex
	weatherErr error
	ratesErr   error
	horoCalls  map[entities.ZodiacSign]int
}

func (c *fakeContent) Weather(_ context.Context, city string) (string, error) {
	if c.weatherErr != nil {
		return "", c.weatherErr
	}
	return "🌤 Погода в " + city, nil
}

func (c *fakeContent) ExchangeRates(_ context.Context) (string, error) {
	if c.ratesErr != nil {
		return "", c.ratesErr
	}
	return "💱 Курсы", nil
}

func (c *fakeContent) Horoscope(_ context.Context, sign entities.ZodiacSign) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.horoCalls == nil {
		c.horoCalls = make(map[entities.ZodiacSign]int)
	}
	c.horoCalls[sign]++
	return "♌ Гороскоп для " + string(sign), nil
}

func (c *fakeContent) DailyQuote(_ context.Context) (string, error) {
	return "🌟 Цитата дня", nil
}

func regimen(owner int64, name, start string, intakes int) *entities.Regimen {
	return &entities.Regimen{
		ID:            uuid.New(),
		OwnerID:       owner,
		Name:          name,
		DosePerIntake: 2,
		IntakesPerDay: intakes,
		StartDate:     start,
		DurationValue: 10,
		DurationUnit:  entities.UnitDays,
		BreakValue:    5,
		BreakUnit:     entities.UnitDays,
		Cycles:        1,
	}
}
