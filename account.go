package papertrade

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// Advisor produces the decision text of a run from the account state.
type Advisor interface {
	Decide(ctx context.Context, c AdvisorContext) (string, error)
}

// AdvisorContext is what an advisor knows about the account when it decides.
type AdvisorContext struct {
	Account   AccountInfo
	Positions []Position
	Assets    AssetsReport
	Orders    []OrderRecord
	Prices    Prices
}

// NewAdvisorContext returns the context of a decision on ledger at prices.
func NewAdvisorContext(ledger *Ledger, prices Prices) AdvisorContext {
	return AdvisorContext{
		Account:   ledger.AccountInfo(),
		Positions: ledger.Positions(),
		Assets:    ledger.CalculateAssets(prices),
		Orders:    ledger.OrderHistory(HistorySize),
		Prices:    prices,
	}
}

// Run is one batch executed through an Account.
type Run struct {
	Time        time.Time
	Source      string // "execute" or "advise"
	Decision    string
	Results     []Result
	Assets      AssetsReport
	RealizedPnL Money
}

// Succeeded returns the number of successful results.
func (r Run) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Success {
			n++
		}
	}
	return n
}

// Recorder keeps an history of runs, see the journal package.
type Recorder interface {
	Record(ctx context.Context, run Run) (id string, err error)
}

// HistorySize is the number of recent orders given to advisors.
const HistorySize = 20

// locks holds one mutex per account file, shared by all Accounts of the process.
var locks sync.Map

// lockRetry is the delay between two attempts to take the account file lock.
const lockRetry = 10 * time.Millisecond

// Account is the single writer of a persisted ledger.
//
// Every operation loads the ledger, works on it and saves it while holding a lock
// on the account file, so that two runs never interleave. The lock is a mutex
// within the process, and an advisory lock on the "<file>.lock" sidecar across
// processes.
type Account struct {
	path        string
	file        string // path with symlinks resolved
	initialCash Money
	mu          *sync.Mutex
	flock       *flock.Flock
	recorder    Recorder
	log         *zap.Logger
}

// AccountOption configures an Account.
type AccountOption func(*Account)

// WithLogger sets the account logger.
func WithLogger(logger *zap.Logger) AccountOption {
	return func(a *Account) { a.log = logger }
}

// WithRecorder records every run into r.
func WithRecorder(r Recorder) AccountOption {
	return func(a *Account) { a.recorder = r }
}

// OpenAccount returns the account persisted in path. The file is created by the
// first run, with initialCash in cash.
func OpenAccount(path string, initialCash Money, opts ...AccountOption) *Account {
	file := resolvePath(path)
	mu, _ := locks.LoadOrStore(file, new(sync.Mutex))

	a := &Account{
		path:        path,
		file:        file,
		initialCash: initialCash,
		mu:          mu.(*sync.Mutex),
		flock:       flock.New(file + ".lock"),
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	return a
}

// resolvePath returns the absolute path of the file that path designates, the
// file itself may not exist yet.
func resolvePath(path string) string {
	if target, err := filepath.EvalSymlinks(path); err == nil {
		path = target
	} else if dir, err := filepath.EvalSymlinks(filepath.Dir(path)); err == nil {
		path = filepath.Join(dir, filepath.Base(path))
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Path returns the account file path.
func (a *Account) Path() string { return a.path }

// lock takes the account lock, in the process and then across processes.
func (a *Account) lock(ctx context.Context) (unlock func(), err error) {
	a.mu.Lock()
	if err := os.MkdirAll(filepath.Dir(a.file), 0755); err != nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("could not create directory for account %q: %w", a.path, err)
	}
	locked, err := a.flock.TryLockContext(ctx, lockRetry)
	if err == nil && !locked {
		err = ctx.Err()
	}
	if err != nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("could not lock account %q: %w", a.path, err)
	}
	return func() {
		if err := a.flock.Unlock(); err != nil {
			a.log.Warn("could not unlock account", zap.String("account", a.path), zap.Error(err))
		}
		a.mu.Unlock()
	}, nil
}

// View loads the ledger and passes it to fn. Changes made by fn are not saved.
func (a *Account) View(fn func(*Ledger) error) error {
	unlock, err := a.lock(context.Background())
	if err != nil {
		return err
	}
	defer unlock()

	ledger, err := LoadLedger(a.file, a.initialCash)
	if err != nil {
		return err
	}
	return fn(ledger)
}

// Run executes the instructions found in text with prices from source, and saves the ledger.
func (a *Account) Run(ctx context.Context, text string, source PriceSource) (Run, error) {
	unlock, err := a.lock(ctx)
	if err != nil {
		return Run{}, err
	}
	defer unlock()

	ledger, err := LoadLedger(a.file, a.initialCash)
	if err != nil {
		return Run{}, err
	}
	return a.execute(ctx, ledger, "execute", text, source, nil)
}

// Advise asks adv for a decision about the account, executes it and saves the ledger.
// symbols are priced for the advisor in addition to the held ones.
func (a *Account) Advise(ctx context.Context, adv Advisor, source PriceSource, symbols ...string) (Run, error) {
	unlock, err := a.lock(ctx)
	if err != nil {
		return Run{}, err
	}
	defer unlock()

	ledger, err := LoadLedger(a.file, a.initialCash)
	if err != nil {
		return Run{}, err
	}
	prices, err := fetchPrices(ctx, source, union(symbols, ledger.Symbols()))
	if err != nil {
		return Run{}, err
	}
	text, err := adv.Decide(ctx, NewAdvisorContext(ledger, prices))
	if err != nil {
		return Run{}, fmt.Errorf("advisor failed: %w", err)
	}
	a.log.Info("advisor decided", zap.Int("length", len(text)))
	return a.execute(ctx, ledger, "advise", text, source, prices)
}

// execute runs a batch on ledger, saves it and records the run.
// Prices already known are reused, missing ones are fetched from source.
func (a *Account) execute(ctx context.Context, ledger *Ledger, origin, text string, source PriceSource, known Prices) (Run, error) {
	instructions := ParseInstructions(text)

	var wanted []string
	for _, ins := range instructions {
		wanted = append(wanted, strings.ToUpper(strings.TrimSpace(ins.Symbol)))
	}
	var missing []string
	for _, s := range union(wanted, ledger.Symbols()) {
		if _, ok := known[s]; !ok && s != "" {
			missing = append(missing, s)
		}
	}
	prices, err := fetchPrices(ctx, source, missing)
	if err != nil {
		return Run{}, err
	}
	maps.Copy(prices, known)

	results, err := NewExecutor(ledger, a.log).ExecuteInstructions(instructions, prices)
	if err != nil {
		return Run{}, err
	}
	if err := SaveLedger(a.file, ledger); err != nil {
		return Run{}, err
	}

	run := Run{
		Time:        time.Now(),
		Source:      origin,
		Decision:    text,
		Results:     results,
		Assets:      ledger.CalculateAssets(prices),
		RealizedPnL: ledger.RealizedPnL(),
	}
	fields := []zap.Field{
		zap.String("account", a.path),
		zap.String("source", origin),
		zap.Int("instructions", len(results)),
		zap.Int("succeeded", run.Succeeded()),
		zap.Int("failed", len(results)-run.Succeeded()),
	}
	if a.recorder != nil {
		// the ledger is saved, a journal failure must not fail the run.
		id, err := a.recorder.Record(ctx, run)
		if err != nil {
			a.log.Warn("could not record run", zap.Error(err))
		}
		fields = append(fields, zap.String("run_id", id))
	}
	if run.Assets.Stale() {
		a.log.Warn("positions valued at cost basis", zap.Strings("unpriced", run.Assets.Unpriced))
	}
	a.log.Info("run completed", fields...)
	return run, nil
}

// fetchPrices queries source for symbols. A nil source knows no price.
func fetchPrices(ctx context.Context, source PriceSource, symbols []string) (Prices, error) {
	if source == nil || len(symbols) == 0 {
		return Prices{}, nil
	}
	prices, err := source.Prices(ctx, symbols)
	if err != nil {
		return nil, fmt.Errorf("could not get prices: %w", err)
	}
	if prices == nil {
		prices = Prices{}
	}
	return prices, nil
}

// union returns the sorted distinct symbols of a and b.
func union(a, b []string) []string {
	all := slices.Concat(a, b)
	slices.Sort(all)
	return slices.Compact(all)
}
