package progression

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mentoro/internal/platform/logger"
)

// Persister stores the serialized snapshot. Load returns (nil, nil) when
// nothing has been saved yet.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Change describes an applied mutation. Seq increases by one per mutation.
type Change struct {
	Action string    `json:"action"`
	Seq    uint64    `json:"seq"`
	At     time.Time `json:"at"`
}

const (
	maxNotificationsInMemory = 200
	maxChatInMemory          = 500
)

// Store is the single owner of progression state. Every action runs to
// completion under one mutex; persistence and listeners run after the lock
// is released.
type Store struct {
	mu  sync.Mutex
	st  state
	seq uint64

	log         *logger.Logger
	persister   Persister
	saveTimeout time.Duration
	listeners   []func(Change)

	saveMu   sync.Mutex
	savedSeq uint64
}

type Option func(*storeOptions)

type storeOptions struct {
	log         *logger.Logger
	now         func() time.Time
	loc         *time.Location
	ladder      RankLadder
	quests      []Quest
	persister   Persister
	saveTimeout time.Duration
	listeners   []func(Change)
}

func WithLogger(log *logger.Logger) Option {
	return func(o *storeOptions) { o.log = log }
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *storeOptions) { o.now = now }
}

// WithLocation sets the zone used to decide calendar days for streaks.
func WithLocation(loc *time.Location) Option {
	return func(o *storeOptions) { o.loc = loc }
}

func WithRankLadder(l RankLadder) Option {
	return func(o *storeOptions) { o.ladder = l }
}

func WithCatalog(quests []Quest) Option {
	return func(o *storeOptions) { o.quests = quests }
}

func WithPersister(p Persister) Option {
	return func(o *storeOptions) { o.persister = p }
}

func WithSaveTimeout(d time.Duration) Option {
	return func(o *storeOptions) { o.saveTimeout = d }
}

// WithListener registers fn to be called after every applied mutation.
func WithListener(fn func(Change)) Option {
	return func(o *storeOptions) { o.listeners = append(o.listeners, fn) }
}

func NewStore(opts ...Option) (*Store, error) {
	o := storeOptions{
		now:         time.Now,
		loc:         time.Local,
		ladder:      CodingRanks,
		saveTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.NewNop()
	}
	if o.quests == nil {
		o.quests = DefaultQuests()
	}
	if err := ValidateCatalog(o.quests); err != nil {
		return nil, err
	}

	s := &Store{
		log:         o.log.With("component", "ProgressionStore"),
		persister:   o.persister,
		saveTimeout: o.saveTimeout,
		listeners:   o.listeners,
	}
	s.st = newState(env{now: o.now, loc: o.loc, ladder: o.ladder}, o.quests)
	return s, nil
}

// apply runs fn under the store lock. fn reports whether it changed anything;
// unchanged actions are neither persisted nor announced.
func (s *Store) apply(action string, fn func(st *state) bool) {
	s.mu.Lock()
	if !fn(&s.st) {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	snap := s.st.snapshot()
	at := s.st.env.now()
	s.mu.Unlock()

	s.persist(action, seq, snap)
	for _, fn := range s.listeners {
		fn(Change{Action: action, Seq: seq, At: at})
	}
}

func (s *Store) persist(action string, seq uint64, snap Snapshot) {
	if s.persister == nil {
		return
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		s.log.Warn("snapshot marshal failed", "action", action, "error", err)
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if seq <= s.savedSeq {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()
	if err := s.persister.Save(ctx, raw); err != nil {
		s.log.Warn("snapshot save failed", "action", action, "seq", seq, "error", err)
		return
	}
	s.savedSeq = seq
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.view()
}

func (s *Store) Profile() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProfile(s.st.profile)
}

// Quest returns a copy of the quest with id.
func (s *Store) Quest(id string) (Quest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.st.quest(id)
	if q == nil {
		return Quest{}, false
	}
	return cloneQuest(*q), true
}

func (s *Store) CurrentPersonality() Personality {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePersonality(s.st.currentPersonality())
}

// Seq is the number of mutations applied so far.
func (s *Store) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

type env struct {
	now    func() time.Time
	loc    *time.Location
	ladder RankLadder
}

type state struct {
	env env

	profile       Profile
	authenticated bool

	quests   []Quest
	questIdx map[string]int

	notifications []Notification
	chat          []ChatMessage

	personalities []Personality
	personality   string
	theme         string
	sidebar       bool

	goals    []DailyGoal
	goalsDay string

	achievements []Achievement
	skills       []Skill
	skillIdx     map[string]int

	session FlashcardSession
}

func newState(e env, catalog []Quest) state {
	st := state{
		env:           e,
		personalities: DefaultPersonalities(),
		theme:         "dark",
		achievements:  DefaultAchievements(),
	}
	st.personality = st.personalities[0].ID
	st.profile = guestProfile()
	st.resetProgress(catalog)
	st.recomputeDerived()
	return st
}

// resetProgress rebuilds quests, skills and goals from their catalogs.
func (st *state) resetProgress(catalog []Quest) {
	st.quests = make([]Quest, len(catalog))
	st.questIdx = make(map[string]int, len(catalog))
	for i, q := range catalog {
		q = cloneQuest(q)
		q.Status = QuestLocked
		q.Progress = 0
		st.quests[i] = q
		st.questIdx[q.ID] = i
	}
	st.refreshAvailability()

	st.skills = DefaultSkills()
	st.skillIdx = make(map[string]int, len(st.skills))
	for i, sk := range st.skills {
		st.skillIdx[sk.ID] = i
	}
	st.refreshSkills()

	st.goals = DefaultDailyGoals()
	st.goalsDay = ""
	st.session = FlashcardSession{}
}

func guestProfile() Profile {
	return Profile{
		ID:             "guest",
		Username:       "Guest",
		Avatar:         "🚀",
		Mood:           MoodExcited,
		CurrentTheme:   "dark",
		UnlockedThemes: []string{"dark"},
	}
}

func (st *state) recomputeDerived() {
	if st.profile.TotalXP < 0 {
		st.profile.TotalXP = 0
	}
	st.profile.Level = LevelForXP(st.profile.TotalXP)
	st.profile.XPToNextLevel = XPToNextLevel(st.profile.TotalXP)
	st.profile.Rank = st.env.ladder.RankFor(st.profile.TotalXP)
}

func (st *state) now() time.Time { return st.env.now() }

func (st *state) quest(id string) *Quest {
	i, ok := st.questIdx[id]
	if !ok {
		return nil
	}
	return &st.quests[i]
}

func (st *state) skill(id string) *Skill {
	i, ok := st.skillIdx[id]
	if !ok {
		return nil
	}
	return &st.skills[i]
}

func (st *state) currentPersonality() Personality {
	for _, p := range st.personalities {
		if p.ID == st.personality {
			return p
		}
	}
	return st.personalities[0]
}

func (st *state) notify(n Notification) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = st.now()
	}
	if n.Type == "" {
		n.Type = NotifyInfo
	}
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	n.Read = false
	st.notifications = append(st.notifications, n)
	if over := len(st.notifications) - maxNotificationsInMemory; over > 0 {
		st.notifications = append([]Notification(nil), st.notifications[over:]...)
	}
}

func (st *state) appendChat(m ChatMessage) {
	st.chat = append(st.chat, m)
	if over := len(st.chat) - maxChatInMemory; over > 0 {
		st.chat = append([]ChatMessage(nil), st.chat[over:]...)
	}
}

func (st *state) view() State {
	out := State{
		Profile:            cloneProfile(st.profile),
		Authenticated:      st.authenticated,
		Quests:             make([]Quest, len(st.quests)),
		Notifications:      append([]Notification(nil), st.notifications...),
		ChatHistory:        append([]ChatMessage(nil), st.chat...),
		CurrentPersonality: clonePersonality(st.currentPersonality()),
		Personalities:      make([]Personality, len(st.personalities)),
		CurrentTheme:       st.theme,
		SidebarCollapsed:   st.sidebar,
		DailyGoals:         append([]DailyGoal(nil), st.goals...),
		Skills:             make([]Skill, len(st.skills)),
		FlashcardSession:   cloneSession(st.session),
	}
	for i, q := range st.quests {
		out.Quests[i] = cloneQuest(q)
	}
	for i, p := range st.personalities {
		out.Personalities[i] = clonePersonality(p)
	}
	for i, sk := range st.skills {
		out.Skills[i] = cloneSkill(sk)
	}
	return out
}

func cloneProfile(p Profile) Profile {
	p.UnlockedThemes = append([]string(nil), p.UnlockedThemes...)
	achievements := make([]Achievement, len(p.Achievements))
	for i, a := range p.Achievements {
		if a.UnlockedAt != nil {
			t := *a.UnlockedAt
			a.UnlockedAt = &t
		}
		achievements[i] = a
	}
	p.Achievements = achievements
	return p
}

func cloneQuest(q Quest) Quest {
	q.Prerequisites = append([]string(nil), q.Prerequisites...)
	q.Skills = append([]string(nil), q.Skills...)
	q.Objectives = append([]string(nil), q.Objectives...)
	q.Hints = append([]string(nil), q.Hints...)
	return q
}

func clonePersonality(p Personality) Personality {
	p.Traits = append([]string(nil), p.Traits...)
	return p
}

func cloneSkill(sk Skill) Skill {
	sk.Prerequisites = append([]string(nil), sk.Prerequisites...)
	return sk
}

func cloneFlashcard(c Flashcard) Flashcard {
	c.Tags = append([]string(nil), c.Tags...)
	return c
}

func cloneSession(s FlashcardSession) FlashcardSession {
	cards := make([]Flashcard, len(s.Cards))
	for i, c := range s.Cards {
		cards[i] = cloneFlashcard(c)
	}
	s.Cards = cards
	return s
}
