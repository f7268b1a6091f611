package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/poapmint/internal/config"
	"github.com/Mohsinsiddi/poapmint/internal/contract"
	"github.com/Mohsinsiddi/poapmint/internal/frame"
	"github.com/Mohsinsiddi/poapmint/internal/logging"
	"github.com/Mohsinsiddi/poapmint/internal/wallet"
)

// MintGateway is the contract surface the mint view reads and writes.
type MintGateway interface {
	HasMinted(ctx context.Context, addr common.Address) (bool, error)
	WorkshopDetails(ctx context.Context) (*contract.WorkshopDetails, error)
	Mint(ctx context.Context) (common.Hash, error)
	TxStatus(ctx context.Context, hash common.Hash) (contract.TxState, error)
}

// AccountSource reports the currently connected account.
type AccountSource interface {
	Account(ctx context.Context) (wallet.AccountState, error)
}

// TimerFunc schedules fn after d. tea.Tick in production.
type TimerFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// MintOptions configures a MintModel. Zero values fall back to the config
// defaults.
type MintOptions struct {
	Title    string
	Subtitle string
	Network  string
	TxURL    func(hash string) string
	Logger   *slog.Logger

	TxPollInterval      time.Duration
	AccountPollInterval time.Duration
	JustMintedFor       time.Duration
	RequestTimeout      time.Duration

	After TimerFunc
}

const celebrateStep = 150 * time.Millisecond

var celebrationFrames = []string{
	"      ✦",
	"    ✧  ✦  ✧",
	"  ✦  ✺  ✧  ✺  ✦",
	"✧  ✦  ✺  🎉  ✺  ✦  ✧",
	"  ✺  ✧  🎉  ✧  ✺",
	"    ✦  🎉  ✦",
	"      🎉",
}

// ── messages ──────────────────────────────────────────────────────────────

type frameStatusMsg struct{ ready bool }

type frameReadyMsg struct{ err error }

type accountMsg struct {
	state wallet.AccountState
	err   error
}

type accountPollMsg struct{}

type eligibilityMsg struct {
	addr   common.Address
	minted bool
	err    error
}

type detailsMsg struct {
	details *contract.WorkshopDetails
	err     error
}

type mintSubmittedMsg struct {
	hash common.Hash
	err  error
}

type txPollMsg struct{ hash common.Hash }

type txStatusMsg struct {
	hash  common.Hash
	state contract.TxState
	err   error
}

type justMintedExpiredMsg struct{ seq int }

type celebrateMsg struct{ seq, frame int }

type mintSpinMsg struct{}

// MintModel is the Bubble Tea model for the mint page. It mirrors three
// external states (host readiness, the account, the mint transaction) into
// one of three mutually exclusive branches: connecting, claimed, or the mint
// button.
type MintModel struct {
	ctx      context.Context
	gateway  MintGateway
	accounts AccountSource
	host     frame.Host
	log      *slog.Logger
	opts     MintOptions

	frameChecked  bool
	frameReady    bool
	readySignaled bool
	frameErr      string

	account    wallet.AccountState
	accountErr string

	hasMinted  bool
	eligKnown  bool
	eligErr    string
	details    *contract.WorkshopDetails
	detailsErr string

	submitting bool
	tx         contract.TxState
	prevTx     contract.TxState
	txHash     common.Hash

	justMinted bool
	celebSeq   int
	celebFrame int

	notice   string
	spin     int
	Quitting bool
}

// NewMintModel builds the mint page. ctx bounds every contract call the view
// makes and carries the logger when opts.Logger is nil.
func NewMintModel(ctx context.Context, gw MintGateway, accounts AccountSource, host frame.Host, opts MintOptions) MintModel {
	if opts.TxPollInterval <= 0 {
		opts.TxPollInterval = config.TxPollInterval
	}
	if opts.AccountPollInterval <= 0 {
		opts.AccountPollInterval = config.AccountPollInterval
	}
	if opts.JustMintedFor <= 0 {
		opts.JustMintedFor = config.JustMintedDuration
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = config.RequestTimeout
	}
	if opts.After == nil {
		opts.After = func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd { return tea.Tick(d, fn) }
	}
	if opts.TxURL == nil {
		opts.TxURL = func(string) string { return "" }
	}
	log := opts.Logger
	if log == nil {
		log = logging.From(ctx)
	}
	return MintModel{
		ctx:        ctx,
		gateway:    gw,
		accounts:   accounts,
		host:       host,
		log:        log.With("component", "mint"),
		opts:       opts,
		celebFrame: -1,
	}
}

// CanMint reports whether a mint press would submit a transaction.
func (m MintModel) CanMint() bool {
	return m.account.Connected &&
		m.frameReady &&
		m.eligKnown &&
		!m.hasMinted &&
		!m.justMinted &&
		!m.Pending()
}

// Pending reports whether a submission or its transaction is in flight.
func (m MintModel) Pending() bool {
	return m.submitting || m.tx == contract.TxPending
}

// HasMinted reports the last known eligibility of the connected account.
func (m MintModel) HasMinted() bool { return m.hasMinted }

// EligibilityKnown reports whether hasMinted has answered for the current
// address.
func (m MintModel) EligibilityKnown() bool { return m.eligKnown }

// JustMinted reports whether the post-mint success window is open.
func (m MintModel) JustMinted() bool { return m.justMinted }

// TxState returns the state of the last submitted transaction.
func (m MintModel) TxState() contract.TxState { return m.tx }

// FrameReady reports whether the host has been told the client is ready.
func (m MintModel) FrameReady() bool { return m.frameReady }

func (m MintModel) Init() tea.Cmd {
	return tea.Batch(
		m.checkFrame(),
		m.fetchAccount(),
		m.fetchDetails(),
		m.opts.After(m.opts.AccountPollInterval, func(time.Time) tea.Msg { return accountPollMsg{} }),
		m.spinTick(),
	)
}

func (m MintModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Quitting = true
			return m, tea.Quit
		case "m", "enter":
			cmds = append(cmds, m.pressMint())
		case "r":
			cmds = append(cmds, m.fetchAccount(), m.fetchDetails())
			if m.account.HasAddress() {
				cmds = append(cmds, m.fetchEligibility(m.account.Address))
			}
		}

	case frameStatusMsg:
		m.frameChecked = true
		m.frameReady = msg.ready

	case frameReadyMsg:
		if msg.err != nil {
			m.log.Warn("frame ready signal failed", "err", msg.err)
			m.frameErr = msg.err.Error()
		} else {
			m.frameReady = true
			m.frameErr = ""
		}

	case accountMsg:
		cmds = append(cmds, m.applyAccount(msg))

	case accountPollMsg:
		cmds = append(cmds,
			m.fetchAccount(),
			m.opts.After(m.opts.AccountPollInterval, func(time.Time) tea.Msg { return accountPollMsg{} }),
		)

	case eligibilityMsg:
		switch {
		case msg.addr != m.account.Address:
			m.log.Debug("discarding eligibility for previous account", "address", msg.addr.Hex())
		case msg.err != nil:
			m.log.Warn("eligibility read failed", "address", msg.addr.Hex(), "err", msg.err)
			m.eligErr = msg.err.Error()
		default:
			m.hasMinted = msg.minted
			m.eligKnown = true
			m.eligErr = ""
		}

	case detailsMsg:
		if msg.err != nil {
			m.log.Warn("workshop details read failed", "err", msg.err)
			m.detailsErr = msg.err.Error()
		} else {
			m.details = msg.details
			m.detailsErr = ""
		}

	case mintSubmittedMsg:
		m.submitting = false
		if msg.err != nil {
			m.log.Error("mint submission failed", "err", msg.err)
			m.notice = "Mint was not submitted. Press m to try again."
			break
		}
		m.log.Info("mint submitted", "tx", msg.hash.Hex())
		m.txHash = msg.hash
		m.tx = contract.TxPending
		cmds = append(cmds, m.pollTx(msg.hash))

	case txPollMsg:
		if msg.hash == m.txHash && m.tx == contract.TxPending {
			cmds = append(cmds, m.fetchTxStatus(msg.hash))
		}

	case txStatusMsg:
		if msg.hash != m.txHash {
			break
		}
		if msg.err != nil {
			m.log.Warn("transaction status read failed", "tx", msg.hash.Hex(), "err", msg.err)
			cmds = append(cmds, m.pollTx(msg.hash))
			break
		}
		m.tx = msg.state
		if !msg.state.Terminal() {
			cmds = append(cmds, m.pollTx(msg.hash))
		}

	case justMintedExpiredMsg:
		if msg.seq == m.celebSeq {
			m.justMinted = false
		}

	case celebrateMsg:
		if msg.seq != m.celebSeq {
			break
		}
		if msg.frame < len(celebrationFrames) {
			m.celebFrame = msg.frame
			cmds = append(cmds, m.celebrateTick(msg.seq, msg.frame+1))
		} else {
			m.celebFrame = -1
		}

	case mintSpinMsg:
		m.spin++
		cmds = append(cmds, m.spinTick())
	}

	cmds = append(cmds, m.watch()...)
	return m, tea.Batch(cmds...)
}

// applyAccount mirrors a connection result. An address change invalidates
// the known eligibility and re-queries it; an unchanged address is
// re-queried only while its eligibility is still unknown.
func (m *MintModel) applyAccount(msg accountMsg) tea.Cmd {
	prev := m.account.Address
	if msg.err != nil {
		m.log.Debug("account unavailable", "err", msg.err)
		m.accountErr = msg.err.Error()
	} else {
		m.accountErr = ""
	}
	m.account = msg.state

	if m.account.Address == prev {
		if m.account.HasAddress() && !m.eligKnown {
			return m.fetchEligibility(m.account.Address)
		}
		return nil
	}
	m.log.Info("account changed", "from", prev.Hex(), "to", m.account.Address.Hex())
	m.hasMinted = false
	m.eligKnown = false
	m.eligErr = ""
	if !m.account.HasAddress() {
		return nil
	}
	return m.fetchEligibility(m.account.Address)
}

// pressMint submits a mint when the page is actionable and does nothing
// otherwise.
func (m *MintModel) pressMint() tea.Cmd {
	if !m.CanMint() {
		m.log.Debug("mint press ignored",
			"connected", m.account.Connected,
			"frame_ready", m.frameReady,
			"eligibility_known", m.eligKnown,
			"has_minted", m.hasMinted,
			"just_minted", m.justMinted,
			"pending", m.Pending())
		return nil
	}
	m.submitting = true
	m.notice = ""
	gw, ctx, timeout := m.gateway, m.ctx, m.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		hash, err := gw.Mint(ctx)
		return mintSubmittedMsg{hash: hash, err: err}
	}
}

// watch compares the current state with the previous one and reacts to
// edges only: the readiness handshake and the transaction outcome.
func (m *MintModel) watch() []tea.Cmd {
	var cmds []tea.Cmd

	if m.frameChecked && !m.frameReady && !m.readySignaled {
		m.readySignaled = true
		cmds = append(cmds, m.signalReady())
	}

	if m.tx != m.prevTx {
		switch m.tx {
		case contract.TxSuccess:
			cmds = append(cmds, m.celebrate()...)
		case contract.TxFailure:
			m.log.Warn("mint transaction failed", "tx", m.txHash.Hex())
		}
		m.prevTx = m.tx
	}
	return cmds
}

func (m *MintModel) celebrate() []tea.Cmd {
	m.log.Info("mint confirmed", "tx", m.txHash.Hex())
	m.celebSeq++
	seq := m.celebSeq
	m.justMinted = true
	m.celebFrame = 0

	cmds := []tea.Cmd{
		m.opts.After(m.opts.JustMintedFor, func(time.Time) tea.Msg { return justMintedExpiredMsg{seq: seq} }),
		m.celebrateTick(seq, 1),
	}
	if m.account.HasAddress() {
		cmds = append(cmds, m.fetchEligibility(m.account.Address))
	}
	return cmds
}

// ── commands ──────────────────────────────────────────────────────────────

func (m MintModel) checkFrame() tea.Cmd {
	host := m.host
	return func() tea.Msg { return frameStatusMsg{ready: host.IsReady()} }
}

func (m MintModel) signalReady() tea.Cmd {
	host, ctx, timeout := m.host, m.ctx, m.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return frameReadyMsg{err: host.Ready(ctx)}
	}
}

func (m MintModel) fetchAccount() tea.Cmd {
	src, ctx, timeout := m.accounts, m.ctx, m.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		state, err := src.Account(ctx)
		return accountMsg{state: state, err: err}
	}
}

func (m MintModel) fetchEligibility(addr common.Address) tea.Cmd {
	gw, ctx, timeout := m.gateway, m.ctx, m.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		minted, err := gw.HasMinted(ctx, addr)
		return eligibilityMsg{addr: addr, minted: minted, err: err}
	}
}

func (m MintModel) fetchDetails() tea.Cmd {
	gw, ctx, timeout := m.gateway, m.ctx, m.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		d, err := gw.WorkshopDetails(ctx)
		return detailsMsg{details: d, err: err}
	}
}

func (m MintModel) pollTx(hash common.Hash) tea.Cmd {
	return m.opts.After(m.opts.TxPollInterval, func(time.Time) tea.Msg { return txPollMsg{hash: hash} })
}

func (m MintModel) fetchTxStatus(hash common.Hash) tea.Cmd {
	gw, ctx, timeout := m.gateway, m.ctx, m.opts.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		state, err := gw.TxStatus(ctx, hash)
		return txStatusMsg{hash: hash, state: state, err: err}
	}
}

func (m MintModel) celebrateTick(seq, idx int) tea.Cmd {
	return m.opts.After(celebrateStep, func(time.Time) tea.Msg { return celebrateMsg{seq: seq, frame: idx} })
}

func (m MintModel) spinTick() tea.Cmd {
	return m.opts.After(spinnerInterval, func(time.Time) tea.Msg { return mintSpinMsg{} })
}

// ── view ──────────────────────────────────────────────────────────────────

func (m MintModel) View() string {
	if m.Quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(Banner(m.opts.Title, m.opts.Subtitle) + "\n")
	sb.WriteString(m.detailsCard() + "\n\n")

	switch {
	case !m.account.Connected || !m.frameReady:
		sb.WriteString(m.connectingView())
	case m.hasMinted || m.justMinted:
		sb.WriteString(m.claimedView())
	case !m.eligKnown:
		sb.WriteString(m.checkingView())
	default:
		sb.WriteString(MintButton(m.Pending()))
	}
	sb.WriteString("\n")

	if line := m.txLine(); line != "" {
		sb.WriteString("\n" + line + "\n")
	}
	if m.notice != "" {
		sb.WriteString("\n" + Warn(m.notice) + "\n")
	}

	sb.WriteString("\n" + m.footer() + "\n")
	return sb.String()
}

func (m MintModel) detailsCard() string {
	if m.details == nil {
		text := "Loading workshop details…"
		if m.detailsErr != "" {
			text = "Workshop details unavailable (press r to retry)"
		}
		return StyleBorder.Render(StyleTitle.Render("Workshop Details") + "\n" + Meta(text))
	}
	return KeyValueBlock("Workshop Details", [][2]string{
		{"Name", orPlaceholder(m.details.Name)},
		{"Start Date", FormatEventDate(m.details.Start())},
		{"End Date", FormatEventDate(m.details.End())},
	})
}

func (m MintModel) connectingView() string {
	spin := StyleAccent.Render(SpinnerFrame(m.spin))
	switch {
	case !m.account.Connected && m.accountErr != "":
		return Err(m.accountErr) + "\n" +
			Hint("add a signing wallet: poapmint wallet add <name> --key <hex>")
	case !m.account.Connected && m.account.HasAddress():
		return Warn("Wallet "+m.account.Wallet+" is watch-only") + "\n" +
			Hint("minting needs a signing wallet")
	case !m.account.Connected:
		return spin + "  Connecting wallet…"
	case m.frameErr != "":
		return Err("Host did not accept the ready signal: " + m.frameErr)
	default:
		return spin + "  Waiting for host…"
	}
}

func (m MintModel) checkingView() string {
	if m.eligErr != "" {
		return Warn("Could not check eligibility: "+m.eligErr) + "\n" +
			Hint("press r to retry")
	}
	return StyleAccent.Render(SpinnerFrame(m.spin)) + "  Checking eligibility…"
}

func (m MintModel) claimedView() string {
	if m.justMinted {
		out := Success("Successfully minted your POAP!")
		if m.celebFrame >= 0 && m.celebFrame < len(celebrationFrames) {
			out = StyleWarning.Render(celebrationFrames[m.celebFrame]) + "\n" + out
		}
		return out
	}
	return Success("You have already minted your POAP!")
}

func (m MintModel) txLine() string {
	if m.txHash == (common.Hash{}) {
		return ""
	}
	hash := m.txHash.Hex()
	var status string
	switch m.tx {
	case contract.TxPending:
		status = StyleWarning.Render(SpinnerFrame(m.spin) + " pending")
	case contract.TxSuccess:
		status = StyleSuccess.Render("confirmed")
	case contract.TxFailure:
		status = StyleError.Render("failed")
	}
	line := Meta("Tx ") + Addr(TruncateAddr(hash)) + "  " + status
	if url := m.opts.TxURL(hash); url != "" {
		line += "\n" + Meta(url)
	}
	if m.tx == contract.TxFailure {
		line += "\n" + Err("Mint transaction failed. Press m to try again.")
	}
	return line
}

func (m MintModel) footer() string {
	parts := []string{"Powered by poapmint"}
	if m.opts.Network != "" {
		parts = append(parts, m.opts.Network)
	}
	if m.account.HasAddress() {
		parts = append(parts, TruncateAddr(m.account.Address.Hex()))
	}
	return Meta(strings.Join(parts, "  ·  ")) + "\n" +
		Meta("m mint  ·  r refresh  ·  q quit")
}

// MintButton renders the mint action, disabled while a mint is in flight.
func MintButton(pending bool) string {
	if pending {
		return StyleButtonDisabled.Render("Minting…")
	}
	return StyleButton.Render("Mint POAP") + "  " + Meta("press m")
}

// FormatEventDate renders a workshop date, or a dash for an unset one.
func FormatEventDate(t time.Time) string {
	if t.IsZero() || t.Unix() == 0 {
		return "—"
	}
	return t.Format("Jan 2, 2006")
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
