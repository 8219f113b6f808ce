package drill

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/eslsoft/vocdrill/internal/entity"
)

// scriptedRand replays a fixed sequence of floats and leaves slices in their original order.
type scriptedRand struct {
	values []float64
	next   int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

func (r *scriptedRand) Shuffle(int, func(i, j int)) {}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestEngine(t *testing.T, cfg Config, prompts ...string) (*Engine, []string) {
	t.Helper()
	e, err := New(cfg, WithRand(&scriptedRand{}), WithIDGenerator(sequentialIDs("id")))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ids := make([]string, len(prompts))
	for i, prompt := range prompts {
		ids[i] = e.AddItem(prompt, "meaning of "+prompt)
	}
	return e, ids
}

// seedHistory appends rounds targeting itemID with the given outcomes: 'c' correct, 'w' wrong, '-' unanswered.
func seedHistory(t *testing.T, e *Engine, itemID string, outcomes string) {
	t.Helper()
	item := e.items[itemID]
	if item == nil {
		t.Fatalf("unknown item %s", itemID)
	}
	for _, o := range outcomes {
		round := &entity.Round{
			ID:        e.newID(),
			Index:     len(e.roundOrder),
			TargetID:  itemID,
			ChoiceIDs: []string{itemID},
		}
		switch o {
		case 'c', 'w':
			correct := o == 'c'
			round.Correct = &correct
			round.ChosenID = itemID
		case '-':
		default:
			t.Fatalf("bad outcome %q", o)
		}
		e.rounds[round.ID] = round
		e.roundOrder = append(e.roundOrder, round.ID)
		item.ShownRounds = append(item.ShownRounds, round.ID)
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func firstWrongChoice(round entity.Round) string {
	for _, id := range round.ChoiceIDs {
		if id != round.TargetID {
			return id
		}
	}
	return ""
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cases := map[string]func(*Config){
		"zero min rounds":    func(c *Config) { c.EndMinRounds = 0 },
		"single choice":      func(c *Config) { c.ChoiceCount = 1 },
		"threshold above 1":  func(c *Config) { c.EndNeedThreshold = 1.5 },
		"negative threshold": func(c *Config) { c.EndNeedThreshold = -0.1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNeedScore_UnseenItemIsOne(t *testing.T) {
	e, ids := newTestEngine(t, DefaultConfig(), "apple")
	need, err := e.NeedScore(ids[0])
	if err != nil {
		t.Fatalf("NeedScore error: %v", err)
	}
	if need != 1 {
		t.Fatalf("expected need 1, got %v", need)
	}
}

func TestNeedScore_UnknownItem(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(), "apple")
	if _, err := e.NeedScore("missing"); !errors.Is(err, entity.ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}

func TestNeedScore_WarmUpAfterOneCorrectRound(t *testing.T) {
	e, ids := newTestEngine(t, DefaultConfig(), "apple")

	round, err := e.ProduceRound(1)
	if err != nil {
		t.Fatalf("ProduceRound error: %v", err)
	}
	correct, err := e.RecordAnswer(round.ID, ids[0])
	if err != nil || !correct {
		t.Fatalf("expected correct answer, got %v %v", correct, err)
	}

	need, _ := e.NeedScore(ids[0])
	if !approxEqual(need, 0.25) {
		t.Fatalf("expected warm-up need 0.25, got %v", need)
	}
}

func TestNeedScore_Histories(t *testing.T) {
	cases := []struct {
		name     string
		minRound int
		history  string
		want     float64
	}{
		{name: "warm-up wrong", minRound: 2, history: "w", want: 1},
		{name: "warm-up half wrong", minRound: 4, history: "wc", want: 0.75},
		{name: "warm-up unanswered counts as not correct", minRound: 3, history: "-", want: 1},
		{name: "steady two wrong", minRound: 2, history: "ww", want: 1},
		{name: "steady wrong then correct", minRound: 2, history: "wc", want: 0.5 - 0.05625},
		{name: "steady correct then wrong", minRound: 2, history: "cw", want: 0.6},
		{name: "steady window ignores old failures", minRound: 2, history: "wwwcc", want: 0},
		{name: "steady wrong streak adds penalty", minRound: 4, history: "ccww", want: 0.7},
		{name: "wrong penalty is clamped", minRound: 3, history: "wwwwwwwwwwww", want: 1},
		{name: "unanswered skipped by streak", minRound: 3, history: "wwc-", want: 1.0/3 - 0.05625},
		{name: "five correct caps bonus", minRound: 5, history: "ccccc", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.EndMinRounds = tc.minRound
			e, ids := newTestEngine(t, cfg, "apple")
			seedHistory(t, e, ids[0], tc.history)

			need, err := e.NeedScore(ids[0])
			if err != nil {
				t.Fatalf("NeedScore error: %v", err)
			}
			if !approxEqual(need, tc.want) {
				t.Fatalf("history %q: expected need %v, got %v", tc.history, tc.want, need)
			}
		})
	}
}

func TestStreakBonus_CapsAtFour(t *testing.T) {
	cases := []struct {
		streak int
		want   float64
	}{
		{0, 0},
		{1, 0.05625},
		{2, 0.225},
		{4, 0.9},
		{5, 0.9},
		{12, 0.9},
	}
	for _, tc := range cases {
		if got := streakBonus(tc.streak); !approxEqual(got, tc.want) {
			t.Fatalf("streak %d: expected %v, got %v", tc.streak, tc.want, got)
		}
	}
}

func TestStreaks_SkipUnansweredRounds(t *testing.T) {
	e, ids := newTestEngine(t, DefaultConfig(), "apple")
	seedHistory(t, e, ids[0], "wcc-")

	item := e.items[ids[0]]
	if got := e.correctStreak(item); got != 2 {
		t.Fatalf("expected correct streak 2, got %d", got)
	}
	if got := e.wrongStreak(item); got != 0 {
		t.Fatalf("expected wrong streak 0, got %d", got)
	}
}

func TestProduceRound_FirstRoundOfFourItems(t *testing.T) {
	e, ids := newTestEngine(t, DefaultConfig(), "A", "B", "C", "D")

	round, err := e.ProduceRound(4)
	if err != nil {
		t.Fatalf("ProduceRound error: %v", err)
	}
	if round.TargetID != ids[0] {
		t.Fatalf("expected target A (%s), got %s", ids[0], round.TargetID)
	}
	if len(round.ChoiceIDs) != 4 {
		t.Fatalf("expected 4 choices, got %d", len(round.ChoiceIDs))
	}
	for _, id := range ids {
		if !round.Offers(id) {
			t.Fatalf("expected %s among choices %v", id, round.ChoiceIDs)
		}
	}
	if round.Index != 0 {
		t.Fatalf("expected first round index 0, got %d", round.Index)
	}
}

func TestProduceRound_PoolErrors(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig())
	if _, err := e.ProduceRound(4); !errors.Is(err, entity.ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
	if _, err := e.ProduceRound(0); !errors.Is(err, entity.ErrInvalidChoiceCount) {
		t.Fatalf("expected ErrInvalidChoiceCount, got %v", err)
	}

	for pool := 1; pool <= 5; pool++ {
		for choices := 1; choices <= 6; choices++ {
			prompts := make([]string, pool)
			for i := range prompts {
				prompts[i] = fmt.Sprintf("w%d", i)
			}
			e, _ := newTestEngine(t, DefaultConfig(), prompts...)
			_, err := e.ProduceRound(choices)
			if pool < choices {
				if !errors.Is(err, entity.ErrInsufficientPool) {
					t.Fatalf("pool %d choices %d: expected ErrInsufficientPool, got %v", pool, choices, err)
				}
				if e.RoundCount() != 0 {
					t.Fatalf("pool %d choices %d: failed call created a round", pool, choices)
				}
				continue
			}
			if err != nil {
				t.Fatalf("pool %d choices %d: unexpected error %v", pool, choices, err)
			}
		}
	}
}

func TestProduceRound_SkipsPreviousTargetWhenPoolAllows(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PickRoundWeight = 0

	t.Run("larger pool excludes previous target", func(t *testing.T) {
		e, ids := newTestEngine(t, cfg, "A", "B", "C", "D", "E")
		first, _ := e.ProduceRound(4)
		if first.TargetID != ids[0] {
			t.Fatalf("expected A first, got %s", first.TargetID)
		}
		if _, err := e.RecordAnswer(first.ID, firstWrongChoice(first)); err != nil {
			t.Fatalf("RecordAnswer error: %v", err)
		}
		second, _ := e.ProduceRound(4)
		if second.TargetID != ids[1] {
			t.Fatalf("expected B after excluding A, got %s", second.TargetID)
		}
	})

	t.Run("pool equal to choices keeps previous target", func(t *testing.T) {
		e, ids := newTestEngine(t, cfg, "A", "B", "C", "D")
		first, _ := e.ProduceRound(4)
		if _, err := e.RecordAnswer(first.ID, firstWrongChoice(first)); err != nil {
			t.Fatalf("RecordAnswer error: %v", err)
		}
		second, _ := e.ProduceRound(4)
		if second.TargetID != ids[0] {
			t.Fatalf("expected A to be retested, got %s", second.TargetID)
		}
	})
}

func TestProduceRound_DistractorPreference(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChoiceNotShownWeight = 0.05
	e, ids := newTestEngine(t, cfg, "A", "B", "C", "D", "E")

	round, _ := e.ProduceRound(2)
	if round.TargetID != ids[0] || !round.Offers(ids[1]) {
		t.Fatalf("expected A tested against B, got %+v", round)
	}
	if got := e.items[ids[0]].Peers[ids[1]].Shown; got != 1 {
		t.Fatalf("expected B shown once alongside A, got %d", got)
	}
	if score, _ := e.ConfusionScore(ids[0], ids[1]); !approxEqual(score, 0) {
		t.Fatalf("expected confusion 0 before any mistake, got %v", score)
	}

	if correct, _ := e.RecordAnswer(round.ID, ids[1]); correct {
		t.Fatalf("expected wrong answer")
	}
	if score, _ := e.ConfusionScore(ids[0], ids[1]); !approxEqual(score, 0.1) {
		t.Fatalf("expected confusion 0.1 after mistake, got %v", score)
	}
	if score, _ := e.ConfusionScore(ids[0], ids[2]); !approxEqual(score, 0.05) {
		t.Fatalf("expected not-shown weight for C, got %v", score)
	}

	picked := e.selectDistractors(e.items[ids[0]], e.pool(), 1)
	if len(picked) != 1 || picked[0].ID != ids[1] {
		t.Fatalf("expected previously confused B to be preferred, got %v", picked)
	}
}

func TestProduceRound_UnexploredPeersPreferredByDefault(t *testing.T) {
	e, ids := newTestEngine(t, DefaultConfig(), "A", "B", "C", "D", "E")
	round, _ := e.ProduceRound(2)
	if _, err := e.RecordAnswer(round.ID, ids[1]); err != nil {
		t.Fatalf("RecordAnswer error: %v", err)
	}
	picked := e.selectDistractors(e.items[ids[0]], e.pool(), 1)
	if picked[0].ID != ids[2] {
		t.Fatalf("expected unexplored C, got %s", picked[0].ID)
	}
}

func TestProduceRound_InvariantsUnderRandomPlay(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e, err := New(DefaultConfig(), WithRand(rng))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for i := 0; i < 6; i++ {
		e.AddItem(fmt.Sprintf("word-%d", i), fmt.Sprintf("meaning-%d", i))
	}

	for n := 0; n < 300; n++ {
		shownBefore := map[string]int{}
		for _, item := range e.Items() {
			shownBefore[item.ID] = item.TimesShown()
		}

		round, err := e.ProduceRound(4)
		if err != nil {
			t.Fatalf("round %d: %v", n, err)
		}
		seen := map[string]int{}
		for _, id := range round.ChoiceIDs {
			seen[id]++
		}
		if len(round.ChoiceIDs) != 4 || len(seen) != 4 || seen[round.TargetID] != 1 {
			t.Fatalf("round %d: bad choices %v for target %s", n, round.ChoiceIDs, round.TargetID)
		}
		for _, item := range e.Items() {
			want := shownBefore[item.ID]
			if item.ID == round.TargetID {
				want++
			}
			if item.TimesShown() != want {
				t.Fatalf("round %d: item %s shown %d, want %d", n, item.ID, item.TimesShown(), want)
			}
			if _, self := item.Peers[item.ID]; self {
				t.Fatalf("round %d: item %s has a ledger entry for itself", n, item.ID)
			}
		}

		if n%7 == 3 {
			// leave some rounds unanswered
			continue
		}
		before, _ := e.Item(round.TargetID)
		chosen := round.ChoiceIDs[rng.Intn(len(round.ChoiceIDs))]
		correct, err := e.RecordAnswer(round.ID, chosen)
		if err != nil {
			t.Fatalf("round %d: RecordAnswer error: %v", n, err)
		}
		if correct != (chosen == round.TargetID) {
			t.Fatalf("round %d: correctness mismatch", n)
		}
		after, _ := e.Item(round.TargetID)
		for peerID, exposure := range after.Peers {
			diff := exposure.Picked - before.Peers[peerID].Picked
			switch {
			case !correct && peerID == chosen && diff != 1:
				t.Fatalf("round %d: expected picked +1 for %s, got %d", n, peerID, diff)
			case (correct || peerID != chosen) && diff != 0:
				t.Fatalf("round %d: unexpected picked change for %s", n, peerID)
			}
		}

		for _, item := range e.Items() {
			need, _ := e.NeedScore(item.ID)
			if need < 0 || need > 1 {
				t.Fatalf("round %d: need %v out of range", n, need)
			}
		}
	}
}

func TestProduceRound_CountsExposureWithoutAnswer(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(), "A", "B", "C", "D")
	round, _ := e.ProduceRound(4)
	item, _ := e.Item(round.TargetID)
	if item.TimesShown() != 1 {
		t.Fatalf("expected shown 1 right after creation, got %d", item.TimesShown())
	}
}

func TestRecordAnswer_Contract(t *testing.T) {
	e, ids := newTestEngine(t, DefaultConfig(), "A", "B", "C", "D")
	round, _ := e.ProduceRound(4)

	if _, err := e.RecordAnswer("nope", ids[0]); !errors.Is(err, entity.ErrUnknownRound) {
		t.Fatalf("expected ErrUnknownRound, got %v", err)
	}
	if stored, _ := e.Round(round.ID); stored.Answered() {
		t.Fatalf("failed calls must not mutate the round")
	}

	correct, err := e.RecordAnswer(round.ID, round.TargetID)
	if err != nil || !correct {
		t.Fatalf("expected correct, got %v %v", correct, err)
	}
	target, _ := e.Item(round.TargetID)
	for peerID, exposure := range target.Peers {
		if exposure.Picked != 0 {
			t.Fatalf("correct answer touched ledger for %s", peerID)
		}
	}

	again, err := e.RecordAnswer(round.ID, round.TargetID)
	if err != nil || !again {
		t.Fatalf("expected idempotent repeat, got %v %v", again, err)
	}
	if _, err := e.RecordAnswer(round.ID, firstWrongChoice(round)); !errors.Is(err, entity.ErrRoundAnswered) {
		t.Fatalf("expected ErrRoundAnswered, got %v", err)
	}
	stored, _ := e.Round(round.ID)
	if stored.ChosenID != round.TargetID || !*stored.Correct {
		t.Fatalf("verdict was overwritten: %+v", stored)
	}
}

func TestRecordAnswer_UnofferedPoolItemIsWrong(t *testing.T) {
	e, ids := newTestEngine(t, DefaultConfig(), "A", "B", "C", "D", "E", "F")
	round, err := e.ProduceRound(4)
	if err != nil {
		t.Fatal(err)
	}

	var outsider string
	for _, id := range ids {
		if !round.Offers(id) {
			outsider = id
			break
		}
	}
	if outsider == "" {
		t.Fatal("expected an item left out of the round")
	}

	correct, err := e.RecordAnswer(round.ID, outsider)
	if err != nil || correct {
		t.Fatalf("expected wrong answer without error, got %v %v", correct, err)
	}

	target, _ := e.Item(round.TargetID)
	picked := 0
	for peerID, exposure := range target.Peers {
		picked += exposure.Picked
		if exposure.Picked > 0 && peerID != outsider {
			t.Fatalf("ledger charged %s instead of %s", peerID, outsider)
		}
	}
	if picked != 1 {
		t.Fatalf("expected exactly one picked increment, got %d", picked)
	}
	if stored, _ := e.Round(round.ID); stored.ChosenID != outsider || *stored.Correct {
		t.Fatalf("verdict not stored: %+v", stored)
	}
}

func TestRecordAnswer_WrongIncrementsOneCounter(t *testing.T) {
	e, _ := newTestEngine(t, DefaultConfig(), "A", "B", "C", "D")
	round, _ := e.ProduceRound(4)
	wrong := firstWrongChoice(round)

	correct, err := e.RecordAnswer(round.ID, wrong)
	if err != nil || correct {
		t.Fatalf("expected wrong answer, got %v %v", correct, err)
	}
	again, err := e.RecordAnswer(round.ID, wrong)
	if err != nil || again {
		t.Fatalf("expected idempotent wrong verdict, got %v %v", again, err)
	}

	target, _ := e.Item(round.TargetID)
	for peerID, exposure := range target.Peers {
		want := 0
		if peerID == wrong {
			want = 1
		}
		if exposure.Picked != want {
			t.Fatalf("peer %s picked %d, want %d", peerID, exposure.Picked, want)
		}
		if exposure.Shown != 1 {
			t.Fatalf("peer %s shown %d, want 1", peerID, exposure.Shown)
		}
	}
}

func TestSkip_ChargesFirstDistractor(t *testing.T) {
	e, ids := newTestEngine(t, DefaultConfig(), "A", "B", "C", "D")
	round, _ := e.ProduceRound(4)

	correct, err := e.Skip(round.ID)
	if err != nil || correct {
		t.Fatalf("expected skip to count as wrong, got %v %v", correct, err)
	}
	stored, _ := e.Round(round.ID)
	if stored.ChosenID != ids[1] {
		t.Fatalf("expected B to be charged, got %s", stored.ChosenID)
	}
	if _, err := e.Skip("missing"); !errors.Is(err, entity.ErrUnknownRound) {
		t.Fatalf("expected ErrUnknownRound, got %v", err)
	}
}

func TestCanEndSession(t *testing.T) {
	empty, _ := newTestEngine(t, DefaultConfig())
	if !empty.CanEndSession() {
		t.Fatalf("empty pool should vacuously allow ending")
	}

	e, _ := newTestEngine(t, DefaultConfig(), "A", "B", "C", "D")
	ended := false
	for n := 0; n < 100; n++ {
		underExposed := false
		for _, item := range e.Items() {
			if item.TimesShown() < e.Config().EndMinRounds {
				underExposed = true
			}
		}
		if underExposed && e.CanEndSession() {
			t.Fatalf("round %d: session may not end while items are under-exposed", n)
		}
		if e.CanEndSession() {
			ended = true
			break
		}
		round, err := e.ProduceRound(4)
		if err != nil {
			t.Fatalf("ProduceRound error: %v", err)
		}
		if _, err := e.RecordAnswer(round.ID, round.TargetID); err != nil {
			t.Fatalf("RecordAnswer error: %v", err)
		}
	}
	if !ended {
		t.Fatalf("expected all-correct play to reach the end condition")
	}
	for _, item := range e.Items() {
		need, _ := e.NeedScore(item.ID)
		if need > e.Config().EndNeedThreshold || item.TimesShown() < e.Config().EndMinRounds {
			t.Fatalf("item %s does not satisfy the end rule: need %v shown %d", item.ID, need, item.TimesShown())
		}
	}
}

func TestAnswerPriorityScore(t *testing.T) {
	e, ids := newTestEngine(t, DefaultConfig(), "A")
	score, err := e.AnswerPriorityScore(ids[0])
	if err != nil {
		t.Fatalf("AnswerPriorityScore error: %v", err)
	}
	// need 1 * 0.7 + (0 - (-1) - 0.03) * 0.05
	if !approxEqual(score, 0.7485) {
		t.Fatalf("expected 0.7485, got %v", score)
	}
	if _, err := e.ConfusionScore(ids[0], "missing"); !errors.Is(err, entity.ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}

func TestReport(t *testing.T) {
	e, ids := newTestEngine(t, DefaultConfig(), "A", "B", "C", "D")
	round, _ := e.ProduceRound(4)
	if _, err := e.RecordAnswer(round.ID, ids[0]); err != nil {
		t.Fatalf("RecordAnswer error: %v", err)
	}

	report := e.Report()
	if report.Rounds != 1 || report.CanEnd {
		t.Fatalf("unexpected report header: %+v", report)
	}
	if len(report.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(report.Items))
	}
	if last := report.Items[3]; last.ID != ids[0] || !approxEqual(last.Need, 0.25) {
		t.Fatalf("expected A last with need 0.25, got %+v", last)
	}
	if report.Items[0].ID != ids[1] {
		t.Fatalf("expected ties to keep insertion order, got %s first", report.Items[0].ID)
	}
	if !approxEqual(report.AverageAccuracy, 0.25) || !approxEqual(report.AverageNeed, 0.8125) {
		t.Fatalf("unexpected averages: %v %v", report.AverageAccuracy, report.AverageNeed)
	}

	stats, err := e.Stats(ids[1])
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if !approxEqual(stats.DistractorScore, 8.0/3.0) {
		t.Fatalf("expected distractor score 8/3, got %v", stats.DistractorScore)
	}
}

func TestReport_DrawsFromRand(t *testing.T) {
	rng := &scriptedRand{values: []float64{0.5}}
	e, err := New(DefaultConfig(), WithRand(rng), WithIDGenerator(sequentialIDs("id")))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	for _, prompt := range []string{"A", "B", "C"} {
		e.AddItem(prompt, "meaning of "+prompt)
	}

	before := rng.next
	e.Report()
	// One pick-score draw per item plus one confusion draw per ordered pair.
	if got := rng.next - before; got != 3+3*2 {
		t.Fatalf("expected 9 draws, got %d", got)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	e, ids := newTestEngine(t, DefaultConfig(), "A", "B")
	round, _ := e.ProduceRound(2)

	items := e.Items()
	items[0].ShownRounds[0] = "tampered"
	items[0].Peers[ids[1]] = entity.PeerExposure{Picked: 99}
	round.ChoiceIDs[0] = "tampered"

	item, _ := e.Item(ids[0])
	if item.ShownRounds[0] == "tampered" || item.Peers[ids[1]].Picked == 99 {
		t.Fatalf("item state leaked to caller")
	}
	stored, _ := e.Round(round.ID)
	if stored.ChoiceIDs[0] == "tampered" {
		t.Fatalf("round state leaked to caller")
	}
}
