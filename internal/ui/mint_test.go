package ui

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/big"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/poapmint/internal/contract"
	"github.com/Mohsinsiddi/poapmint/internal/logging"
	"github.com/Mohsinsiddi/poapmint/internal/wallet"
)

var (
	alice  = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob    = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	txHash = common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111")
)

// ── fakes ─────────────────────────────────────────────────────────────────

type fakeGateway struct {
	mu         sync.Mutex
	minted     map[common.Address]bool
	details    *contract.WorkshopDetails
	detailsErr error
	mintErr    error
	eligErr    error
	statuses   []contract.TxState
	mintCalls  int
	eligCalls  []common.Address
}

func (g *fakeGateway) HasMinted(_ context.Context, addr common.Address) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.eligCalls = append(g.eligCalls, addr)
	if g.eligErr != nil {
		return false, g.eligErr
	}
	return g.minted[addr], nil
}

func (g *fakeGateway) WorkshopDetails(context.Context) (*contract.WorkshopDetails, error) {
	return g.details, g.detailsErr
}

func (g *fakeGateway) Mint(context.Context) (common.Hash, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mintCalls++
	if g.mintErr != nil {
		return common.Hash{}, g.mintErr
	}
	return txHash, nil
}

func (g *fakeGateway) TxStatus(context.Context, common.Hash) (contract.TxState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.statuses) == 0 {
		return contract.TxPending, nil
	}
	s := g.statuses[0]
	if len(g.statuses) > 1 {
		g.statuses = g.statuses[1:]
	}
	return s, nil
}

type fakeAccounts struct {
	state wallet.AccountState
	err   error
}

func (a *fakeAccounts) Account(context.Context) (wallet.AccountState, error) {
	return a.state, a.err
}

type fakeHost struct {
	ready   bool
	signals int
	err     error
}

func (h *fakeHost) IsReady() bool { return h.ready }

func (h *fakeHost) Ready(context.Context) error {
	h.signals++
	if h.err != nil {
		return h.err
	}
	h.ready = true
	return nil
}

type timer struct {
	d  time.Duration
	fn func(time.Time) tea.Msg
}

// clock captures scheduled timers instead of running them.
type clock struct{ timers []timer }

func (c *clock) after(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	c.timers = append(c.timers, timer{d: d, fn: fn})
	return nil
}

// fire removes the first timer whose message satisfies match and returns
// that message.
func (c *clock) fire(t *testing.T, match func(tea.Msg) bool) tea.Msg {
	t.Helper()
	for i, tm := range c.timers {
		msg := tm.fn(time.Now())
		if match(msg) {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return msg
		}
	}
	t.Fatal("no matching timer scheduled")
	return nil
}

func (c *clock) count(match func(timer) bool) int {
	n := 0
	for _, tm := range c.timers {
		if match(tm) {
			n++
		}
	}
	return n
}

func isTxPoll(msg tea.Msg) bool    { _, ok := msg.(txPollMsg); return ok }
func isExpiry(msg tea.Msg) bool    { _, ok := msg.(justMintedExpiredMsg); return ok }
func isAcctPoll(msg tea.Msg) bool  { _, ok := msg.(accountPollMsg); return ok }
func isCelebrate(msg tea.Msg) bool { _, ok := msg.(celebrateMsg); return ok }

// ── harness ───────────────────────────────────────────────────────────────

type harness struct {
	gw    *fakeGateway
	acct  *fakeAccounts
	host  *fakeHost
	clock *clock
	logs  *bytes.Buffer
}

func newHarness() *harness {
	return &harness{
		gw: &fakeGateway{
			minted: map[common.Address]bool{},
			details: &contract.WorkshopDetails{
				Name:      "Batch Brewing 101",
				StartDate: big.NewInt(1735689600),
				EndDate:   big.NewInt(1735776000),
			},
		},
		acct:  &fakeAccounts{state: wallet.AccountState{Address: alice, Connected: true, Wallet: "alice"}},
		host:  &fakeHost{},
		clock: &clock{},
		logs:  &bytes.Buffer{},
	}
}

func (h *harness) model() MintModel {
	ctx := logging.WithLogger(context.Background(), logging.New(h.logs, slog.LevelDebug))
	return NewMintModel(ctx, h.gw, h.acct, h.host, MintOptions{
		Title:    "BASEBALL BATCHES 001",
		Subtitle: "HOMEBATCH WORKSHOPS",
		Network:  "Base Sepolia",
		TxURL:    func(hash string) string { return "https://sepolia.basescan.org/tx/" + hash },
		After:    h.clock.after,
	})
}

// start runs Init and everything it produces.
func (h *harness) start(t *testing.T) MintModel {
	t.Helper()
	m := h.model()
	return drive(t, m, run(m.Init())...)
}

// drive feeds msgs through Update, then every message the returned commands
// produce, until nothing is left. Timers stay in the clock.
func drive(t *testing.T, m MintModel, msgs ...tea.Msg) MintModel {
	t.Helper()
	queue := append([]tea.Msg(nil), msgs...)
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 500, "update loop did not settle")
		msg := queue[0]
		queue = queue[1:]
		next, cmd := m.Update(msg)
		m = next.(MintModel)
		queue = append(queue, run(cmd)...)
	}
	return m
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, run(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step applies one message and drops the commands it returns.
func step(m MintModel, msg tea.Msg) MintModel {
	next, _ := m.Update(msg)
	return next.(MintModel)
}

// mintToPending presses mint and returns the model with the tx pending.
func mintToPending(t *testing.T, m MintModel) MintModel {
	t.Helper()
	require.True(t, m.CanMint())
	m = drive(t, m, key("m"))
	require.Equal(t, contract.TxPending, m.TxState())
	return m
}

// ── readiness ─────────────────────────────────────────────────────────────

func TestMintReadySignalledOnce(t *testing.T) {
	h := newHarness()
	m := h.start(t)

	assert.True(t, m.FrameReady())
	assert.Equal(t, 1, h.host.signals)

	for i := 0; i < 20; i++ {
		m = drive(t, m, mintSpinMsg{}, accountPollMsg{}, key("r"))
	}
	assert.Equal(t, 1, h.host.signals)
}

func TestMintReadyNotSignalledWhenHostAlreadyReady(t *testing.T) {
	h := newHarness()
	h.host.ready = true
	m := h.start(t)

	assert.True(t, m.FrameReady())
	assert.Equal(t, 0, h.host.signals)
}

func TestMintReadySignalFailureIsNotRetried(t *testing.T) {
	h := newHarness()
	h.host.err = errors.New("connection refused")
	m := h.start(t)

	for i := 0; i < 10; i++ {
		m = drive(t, m, mintSpinMsg{}, accountPollMsg{})
	}
	assert.Equal(t, 1, h.host.signals)
	assert.False(t, m.FrameReady())
	assert.False(t, m.CanMint())
	assert.Contains(t, m.View(), "connection refused")
	assert.Contains(t, h.logs.String(), "frame ready signal failed")
}

// ── branches ──────────────────────────────────────────────────────────────

func TestMintConnectingBranchBeforeAccount(t *testing.T) {
	h := newHarness()
	m := h.model()

	view := m.View()
	assert.Contains(t, view, "Connecting wallet")
	assert.NotContains(t, view, "Mint POAP")
	assert.Contains(t, view, "BASEBALL BATCHES 001")
	assert.Contains(t, view, "HOMEBATCH WORKSHOPS")
}

func TestMintButtonShownWhenEligible(t *testing.T) {
	h := newHarness()
	m := h.start(t)

	assert.True(t, m.CanMint())
	view := m.View()
	assert.Contains(t, view, "Mint POAP")
	assert.Contains(t, view, "Batch Brewing 101")
	assert.Contains(t, view, "Powered by poapmint")
	assert.Contains(t, view, "Base Sepolia")
}

func TestMintAlreadyMintedNeverEnabled(t *testing.T) {
	h := newHarness()
	h.gw.minted[alice] = true
	m := h.start(t)

	assert.True(t, m.HasMinted())
	assert.False(t, m.CanMint())
	view := m.View()
	assert.Contains(t, view, "You have already minted your POAP!")
	assert.NotContains(t, view, "Mint POAP")

	m = drive(t, m, key("m"), key("enter"))
	assert.Equal(t, 0, h.gw.mintCalls)
}

func TestMintWatchOnlyWalletIsNotConnected(t *testing.T) {
	h := newHarness()
	h.acct.state = wallet.AccountState{Address: bob, Wallet: "bob"}
	m := h.start(t)

	assert.False(t, m.CanMint())
	assert.Contains(t, m.View(), "watch-only")
	m = drive(t, m, key("m"))
	assert.Equal(t, 0, h.gw.mintCalls)
}

func TestMintAccountErrorShowsHint(t *testing.T) {
	h := newHarness()
	h.acct.state = wallet.AccountState{}
	h.acct.err = wallet.ErrNoWallet
	m := h.start(t)

	view := m.View()
	assert.Contains(t, view, "no wallet configured")
	assert.Contains(t, view, "wallet add")
}

// ── details ───────────────────────────────────────────────────────────────

func TestMintDetailsPlaceholderWhileLoading(t *testing.T) {
	h := newHarness()
	assert.Contains(t, h.model().View(), "Loading workshop details")
}

func TestMintDetailsPlaceholderOnError(t *testing.T) {
	h := newHarness()
	h.gw.details = nil
	h.gw.detailsErr = errors.New("execution reverted")
	m := h.start(t)

	assert.Contains(t, m.View(), "Workshop details unavailable")
	assert.True(t, m.CanMint())
	assert.Contains(t, h.logs.String(), "workshop details read failed")
}

func TestMintDetailsNilWithoutError(t *testing.T) {
	h := newHarness()
	h.gw.details = nil
	m := h.start(t)

	assert.NotPanics(t, func() { _ = m.View() })
	assert.Contains(t, m.View(), "Loading workshop details")
}

func TestMintDetailsRefresh(t *testing.T) {
	h := newHarness()
	h.gw.details = nil
	h.gw.detailsErr = errors.New("timeout")
	m := h.start(t)
	require.Contains(t, m.View(), "unavailable")

	h.gw.detailsErr = nil
	h.gw.details = &contract.WorkshopDetails{Name: "Sour Mash", StartDate: big.NewInt(0), EndDate: big.NewInt(0)}
	m = drive(t, m, key("r"))

	view := m.View()
	assert.Contains(t, view, "Sour Mash")
	assert.NotContains(t, view, "unavailable")
}

// ── mint flow ─────────────────────────────────────────────────────────────

func TestMintRapidPressesSubmitOnce(t *testing.T) {
	h := newHarness()
	m := h.start(t)

	next, first := m.Update(key("m"))
	m = next.(MintModel)
	assert.True(t, m.Pending())
	assert.Contains(t, m.View(), "Minting…")

	next, second := m.Update(key("enter"))
	m = next.(MintModel)
	assert.Empty(t, run(second))

	m = drive(t, m, run(first)...)
	assert.Equal(t, 1, h.gw.mintCalls)
	assert.Equal(t, contract.TxPending, m.TxState())
}

func TestMintSuccessSetsJustMintedForFiveSeconds(t *testing.T) {
	h := newHarness()
	h.gw.statuses = []contract.TxState{contract.TxPending, contract.TxSuccess}
	m := mintToPending(t, h.start(t))

	assert.Equal(t, 1, h.clock.count(func(tm timer) bool { return tm.d == 2*time.Second && isTxPoll(tm.fn(time.Time{})) }))

	m = drive(t, m, h.clock.fire(t, isTxPoll))
	require.Equal(t, contract.TxPending, m.TxState())
	assert.False(t, m.JustMinted())

	eligBefore := len(h.gw.eligCalls)
	h.gw.minted[alice] = true
	m = drive(t, m, h.clock.fire(t, isTxPoll))

	require.Equal(t, contract.TxSuccess, m.TxState())
	assert.True(t, m.JustMinted())
	assert.Contains(t, m.View(), "Successfully minted your POAP!")
	assert.Greater(t, len(h.gw.eligCalls), eligBefore)
	assert.Equal(t, 0, h.clock.count(func(tm timer) bool { return isTxPoll(tm.fn(time.Time{})) }))

	expiries := h.clock.count(func(tm timer) bool { return tm.d == 5*time.Second && isExpiry(tm.fn(time.Time{})) })
	require.Equal(t, 1, expiries)

	// A repeated success report is not a new edge.
	m = drive(t, m, txStatusMsg{hash: txHash, state: contract.TxSuccess})
	assert.Equal(t, 1, h.clock.count(func(tm timer) bool { return isExpiry(tm.fn(time.Time{})) }))

	m = drive(t, m, h.clock.fire(t, isExpiry))
	assert.False(t, m.JustMinted())
	assert.True(t, m.HasMinted())
	assert.Contains(t, m.View(), "You have already minted your POAP!")
	assert.Contains(t, h.logs.String(), "mint confirmed")
}

func TestMintJustMintedRevertsEvenIfNotYetMinted(t *testing.T) {
	h := newHarness()
	h.gw.statuses = []contract.TxState{contract.TxSuccess}
	m := mintToPending(t, h.start(t))
	m = drive(t, m, h.clock.fire(t, isTxPoll))
	require.True(t, m.JustMinted())

	m = drive(t, m, h.clock.fire(t, isExpiry))
	assert.False(t, m.JustMinted())
	assert.False(t, m.HasMinted())
	assert.True(t, m.CanMint())
}

func TestMintCelebrationRuns(t *testing.T) {
	h := newHarness()
	h.gw.statuses = []contract.TxState{contract.TxSuccess}
	m := mintToPending(t, h.start(t))
	m = drive(t, m, h.clock.fire(t, isTxPoll))

	for i := 0; i < len(celebrationFrames); i++ {
		m = drive(t, m, h.clock.fire(t, isCelebrate))
	}
	assert.Equal(t, -1, m.celebFrame)
	assert.Equal(t, 0, h.clock.count(func(tm timer) bool { return isCelebrate(tm.fn(time.Time{})) }))
	assert.True(t, m.JustMinted())
}

func TestMintFailureShowsNoticeAndReenables(t *testing.T) {
	h := newHarness()
	h.gw.statuses = []contract.TxState{contract.TxFailure}
	m := mintToPending(t, h.start(t))
	m = drive(t, m, h.clock.fire(t, isTxPoll))

	assert.Equal(t, contract.TxFailure, m.TxState())
	assert.False(t, m.JustMinted())
	assert.True(t, m.CanMint())
	view := m.View()
	assert.Contains(t, view, "Mint transaction failed")
	assert.Contains(t, view, "Mint POAP")
	assert.Equal(t, 0, h.clock.count(func(tm timer) bool { return isExpiry(tm.fn(time.Time{})) }))
	assert.Contains(t, h.logs.String(), "mint transaction failed")
}

func TestMintSubmitErrorRestoresButton(t *testing.T) {
	h := newHarness()
	h.gw.mintErr = errors.New("insufficient funds for gas")
	m := h.start(t)

	m = drive(t, m, key("m"))

	assert.Equal(t, 1, h.gw.mintCalls)
	assert.False(t, m.Pending())
	assert.Equal(t, contract.TxIdle, m.TxState())
	assert.True(t, m.CanMint())
	assert.Contains(t, m.View(), "Mint POAP")
	assert.Contains(t, h.logs.String(), "mint submission failed")
	assert.Contains(t, h.logs.String(), "insufficient funds for gas")
	assert.Equal(t, 0, h.clock.count(func(tm timer) bool { return isTxPoll(tm.fn(time.Time{})) }))
}

func TestMintTxLinkShown(t *testing.T) {
	h := newHarness()
	m := mintToPending(t, h.start(t))

	view := m.View()
	assert.Contains(t, view, "https://sepolia.basescan.org/tx/"+txHash.Hex())
	assert.Contains(t, view, "Minting…")
}

// ── account sync ──────────────────────────────────────────────────────────

func TestMintAccountChangeRequeriesEligibility(t *testing.T) {
	h := newHarness()
	h.gw.minted[bob] = true
	m := h.start(t)
	require.False(t, m.HasMinted())

	h.acct.state = wallet.AccountState{Address: bob, Connected: true, Wallet: "bob"}
	m = drive(t, m, h.clock.fire(t, isAcctPoll))

	assert.True(t, m.HasMinted())
	assert.Equal(t, []common.Address{alice, bob}, h.gw.eligCalls)
	assert.Equal(t, 1, h.clock.count(func(tm timer) bool { return tm.d == 10*time.Second && isAcctPoll(tm.fn(time.Time{})) }))
}

func TestMintSameAccountDoesNotRequery(t *testing.T) {
	h := newHarness()
	m := h.start(t)
	m = drive(t, m, h.clock.fire(t, isAcctPoll))
	m = drive(t, m, h.clock.fire(t, isAcctPoll))

	assert.Equal(t, []common.Address{alice}, h.gw.eligCalls)
	assert.True(t, m.CanMint())
}

func TestMintUnknownEligibilityNeverEnabled(t *testing.T) {
	h := newHarness()
	h.gw.minted[alice] = true
	m := h.model()

	m = step(m, frameStatusMsg{ready: true})
	m = step(m, accountMsg{state: h.acct.state})
	require.False(t, m.EligibilityKnown())
	assert.False(t, m.CanMint())
	view := m.View()
	assert.Contains(t, view, "Checking eligibility")
	assert.NotContains(t, view, "Mint POAP")

	m = drive(t, m, key("m"), key("enter"))
	assert.Equal(t, 0, h.gw.mintCalls)

	m = drive(t, m, eligibilityMsg{addr: alice, minted: true})
	assert.True(t, m.EligibilityKnown())
	assert.False(t, m.CanMint())
	assert.Contains(t, m.View(), "You have already minted your POAP!")
}

func TestMintAccountSwitchHidesButtonUntilEligibilityAnswers(t *testing.T) {
	h := newHarness()
	m := h.start(t)
	require.True(t, m.CanMint())

	m = step(m, accountMsg{state: wallet.AccountState{Address: bob, Connected: true, Wallet: "bob"}})
	assert.False(t, m.CanMint())
	assert.NotContains(t, m.View(), "Mint POAP")

	m = drive(t, m, key("m"))
	assert.Equal(t, 0, h.gw.mintCalls)

	m = drive(t, m, eligibilityMsg{addr: bob, minted: false})
	assert.True(t, m.CanMint())
}

func TestMintEligibilityRetriedWhileUnknown(t *testing.T) {
	h := newHarness()
	h.gw.eligErr = errors.New("rpc down")
	m := h.start(t)

	assert.False(t, m.EligibilityKnown())
	assert.False(t, m.CanMint())
	assert.Contains(t, m.View(), "Could not check eligibility: rpc down")

	h.gw.mu.Lock()
	h.gw.eligErr = nil
	h.gw.mu.Unlock()
	m = drive(t, m, h.clock.fire(t, isAcctPoll))

	assert.True(t, m.CanMint())
	assert.Equal(t, []common.Address{alice, alice}, h.gw.eligCalls)
}

func TestMintStaleEligibilityDiscarded(t *testing.T) {
	h := newHarness()
	m := h.start(t)

	m = drive(t, m, eligibilityMsg{addr: bob, minted: true})
	assert.False(t, m.HasMinted())
	assert.True(t, m.CanMint())
}

func TestMintEligibilityErrorKeepsPreviousValue(t *testing.T) {
	h := newHarness()
	h.gw.minted[alice] = true
	m := h.start(t)
	require.True(t, m.HasMinted())

	m = drive(t, m, eligibilityMsg{addr: alice, err: errors.New("rpc down")})
	assert.True(t, m.HasMinted())
	assert.Contains(t, h.logs.String(), "eligibility read failed")
}

func TestMintQuit(t *testing.T) {
	h := newHarness()
	m := h.start(t)

	next, cmd := m.Update(key("q"))
	m = next.(MintModel)
	assert.True(t, m.Quitting)
	assert.Empty(t, m.View())
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

// ── helpers ───────────────────────────────────────────────────────────────

func TestMintButtonLabels(t *testing.T) {
	assert.Contains(t, MintButton(false), "Mint POAP")
	assert.Contains(t, MintButton(true), "Minting…")
	assert.NotContains(t, MintButton(true), "Mint POAP")
}

func TestFormatEventDate(t *testing.T) {
	assert.Equal(t, "—", FormatEventDate(time.Time{}))
	assert.Equal(t, "—", FormatEventDate(time.Unix(0, 0)))
	d := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "Jan 1, 2025", FormatEventDate(d))
}
