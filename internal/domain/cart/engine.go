// internal/domain/cart/engine.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/pkg/kvstore"
	"golang.org/x/sync/errgroup"
)

// EngineOptions tunes stock validation and wiring
type EngineOptions struct {
	LookupTimeout  time.Duration // Per-line bound; a timed out lookup marks the line invalid
	MaxConcurrency int           // Concurrent lookups per validation batch
	Logger         logrus.FieldLogger
	Observer       Observer
}

// Engine owns one cart: line mutation, persistence, stock validation and checkout gating.
//
// Every mutation bumps a generation counter. A validation batch records the generation it
// started from and its result is dropped if the counter moved while it was in flight.
type Engine struct {
	mu    sync.Mutex
	store kvstore.Store
	key   string
	stock StockLookup
	opts  EngineOptions

	lines       []Line
	generation  uint64
	inflight    int
	validity    LineValidity
	validityGen uint64
	hasValidity bool
}

// NewEngine creates an empty engine persisting under key. Call Load to restore a saved cart.
func NewEngine(store kvstore.Store, key string, stock StockLookup, opts EngineOptions) *Engine {
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = 3 * time.Second
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 8
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}

	return &Engine{
		store: store,
		key:   key,
		stock: stock,
		opts:  opts,
	}
}

// Load restores the persisted cart. Missing or corrupt data yields an empty cart; only a
// failing store read is reported, and the engine is still usable (empty) in that case.
func (e *Engine) Load(ctx context.Context) error {
	data, err := e.store.Get(ctx, e.key)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset(nil)

	if errors.Is(err, kvstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	var stored []Line
	if err := json.Unmarshal(data, &stored); err != nil {
		e.opts.Logger.WithFields(logrus.Fields{
			"key":   e.key,
			"error": err,
		}).Warn("Discarding unreadable persisted cart")
		return nil
	}

	lines := make([]Line, 0, len(stored))
	for _, line := range stored {
		if !line.valid() {
			continue
		}
		if i := indexOf(lines, line.VariantID); i >= 0 {
			if sum := lines[i].Quantity + line.Quantity; sum <= MaxLineQuantity {
				lines[i].Quantity = sum
			}
			continue
		}
		lines = append(lines, line)
	}
	e.reset(lines)

	return nil
}

// AddItem merges line into the cart: an existing variant gets the quantities summed and
// takes the new price and display metadata, anything else is appended. A sum above
// MaxLineQuantity is rejected with ErrInvalidLine and the cart is left as it was.
func (e *Engine) AddItem(ctx context.Context, line Line) error {
	if line.VariantID == "" {
		line.VariantID = line.ProductID
	}
	if !line.valid() {
		return ErrInvalidLine
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	lines, ok := mergeLine(e.lines, line)
	if !ok {
		return ErrInvalidLine
	}
	e.lines = lines

	return e.commit(ctx)
}

// Merge folds lines into the cart with AddItem semantics and a single write. Invalid
// lines are skipped. If any merged quantity would exceed MaxLineQuantity nothing is
// merged and ErrInvalidLine is returned. Used when a guest signs in and their session
// cart joins the user's.
func (e *Engine) Merge(ctx context.Context, lines []Line) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := cloneLines(e.lines)
	merged := 0
	for _, line := range lines {
		if line.VariantID == "" {
			line.VariantID = line.ProductID
		}
		if !line.valid() {
			continue
		}
		var ok bool
		if next, ok = mergeLine(next, line); !ok {
			return ErrInvalidLine
		}
		merged++
	}

	if merged == 0 {
		return nil
	}
	e.lines = next
	return e.commit(ctx)
}

// UpdateQuantity sets the quantity of a line; zero or less removes it and more than
// MaxLineQuantity is rejected
func (e *Engine) UpdateQuantity(ctx context.Context, variantID string, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := indexOf(e.lines, variantID)
	if i < 0 {
		return ErrLineNotFound
	}
	if quantity > MaxLineQuantity {
		return ErrInvalidLine
	}

	if quantity <= 0 {
		e.lines = append(e.lines[:i], e.lines[i+1:]...)
	} else {
		e.lines[i].Quantity = quantity
	}

	return e.commit(ctx)
}

// RemoveItem drops a line; removing an absent variant is a no-op
func (e *Engine) RemoveItem(ctx context.Context, variantID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := indexOf(e.lines, variantID)
	if i < 0 {
		return nil
	}
	e.lines = append(e.lines[:i], e.lines[i+1:]...)

	return e.commit(ctx)
}

// Clear empties the cart, e.g. after a successful checkout
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lines = nil
	e.bump()

	if err := e.store.Delete(ctx, e.key); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Lines returns a copy of the cart lines in insertion order
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneLines(e.lines)
}

// Total is the subtotal of the cart, before tax and shipping
func (e *Engine) Total() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Subtotal(e.lines)
}

// Count is the total quantity across lines
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, line := range e.lines {
		count += line.Quantity
	}
	return count
}

// Summary prices the current lines under policy
func (e *Engine) Summary(policy PricingPolicy) Summary {
	return DeriveSummary(e.Lines(), policy)
}

// State reports where the cart is in its validation lifecycle
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case len(e.lines) == 0:
		return StateEmpty
	case e.inflight > 0:
		return StateValidating
	case e.hasValidity && e.validityGen == e.generation:
		if CheckoutEligible(e.lines, e.validity) {
			return StateValid
		}
		return StateInvalid
	default:
		return StatePopulated
	}
}

// Validate checks every line against live stock, one lookup per line, concurrently.
// A failed, missing or timed out lookup marks only its own line invalid. If the cart is
// mutated before the batch completes, the result is discarded and ErrStaleValidation
// is returned.
func (e *Engine) Validate(ctx context.Context) (LineValidity, error) {
	e.mu.Lock()
	snapshot := cloneLines(e.lines)
	generation := e.generation
	e.inflight++
	e.mu.Unlock()

	results := make([]bool, len(snapshot))

	var g errgroup.Group
	g.SetLimit(e.opts.MaxConcurrency)
	for i, line := range snapshot {
		g.Go(func() error {
			results[i] = e.checkLine(ctx, line)
			return nil
		})
	}
	_ = g.Wait()

	validity := make(LineValidity, len(snapshot))
	for i, line := range snapshot {
		validity[line.VariantID] = results[i]
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if generation != e.generation {
		e.opts.Observer.ValidationDiscarded()
		e.opts.Logger.WithFields(logrus.Fields{
			"key":        e.key,
			"generation": generation,
			"current":    e.generation,
		}).Debug("Discarding stale cart validation")
		return nil, ErrStaleValidation
	}

	e.inflight--
	e.validity = validity
	e.validityGen = generation
	e.hasValidity = true

	return copyValidity(validity), nil
}

// IsCheckoutEligible reports whether the current cart is non-empty and validity marks
// every one of its lines available
func (e *Engine) IsCheckoutEligible(validity LineValidity) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return CheckoutEligible(e.lines, validity)
}

// CanCheckout evaluates the last validation result, which is only usable if nothing
// changed since it was computed
func (e *Engine) CanCheckout() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasValidity || e.validityGen != e.generation {
		return false
	}
	return CheckoutEligible(e.lines, e.validity)
}

// Validity returns the last current validation result, if any
func (e *Engine) Validity() (LineValidity, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasValidity || e.validityGen != e.generation {
		return nil, false
	}
	return copyValidity(e.validity), true
}

type lookupResult struct {
	available int
	err       error
}

func (e *Engine) checkLine(ctx context.Context, line Line) bool {
	lookupCtx, cancel := context.WithTimeout(ctx, e.opts.LookupTimeout)
	defer cancel()

	done := make(chan lookupResult, 1)
	go func() {
		available, err := e.stock.AvailableQuantity(lookupCtx, line.VariantID)
		done <- lookupResult{available: available, err: err}
	}()

	var result lookupResult
	select {
	case result = <-done:
	case <-lookupCtx.Done():
		if ctx.Err() != nil {
			e.opts.Observer.LookupCompleted(OutcomeCanceled)
			e.opts.Logger.WithField("variant_id", line.VariantID).Debug("Stock lookup canceled")
			return false
		}
		e.opts.Observer.LookupCompleted(OutcomeTimeout)
		e.opts.Logger.WithField("variant_id", line.VariantID).Warn("Stock lookup timed out")
		return false
	}

	switch {
	case errors.Is(result.err, ErrStockNotFound):
		e.opts.Observer.LookupCompleted(OutcomeNotFound)
		return false
	case result.err != nil:
		e.opts.Observer.LookupCompleted(OutcomeError)
		e.opts.Logger.WithFields(logrus.Fields{
			"variant_id": line.VariantID,
			"error":      result.err,
		}).Warn("Stock lookup failed")
		return false
	case result.available < line.Quantity:
		e.opts.Observer.LookupCompleted(OutcomeUnavailable)
		return false
	default:
		e.opts.Observer.LookupCompleted(OutcomeAvailable)
		return true
	}
}

// commit invalidates validation state and persists the lines. Called with mu held.
func (e *Engine) commit(ctx context.Context) error {
	e.bump()

	if len(e.lines) == 0 {
		if err := e.store.Delete(ctx, e.key); err != nil {
			return fmt.Errorf("failed to save cart: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(e.lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := e.store.Set(ctx, e.key, data); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (e *Engine) bump() {
	e.generation++
	e.inflight = 0
	e.validity = nil
	e.hasValidity = false
}

func (e *Engine) reset(lines []Line) {
	e.lines = lines
	e.bump()
}

// mergeLine sums line into an existing entry for its variant or appends it. It reports
// false when the summed quantity would exceed MaxLineQuantity.
func mergeLine(lines []Line, line Line) ([]Line, bool) {
	i := indexOf(lines, line.VariantID)
	if i < 0 {
		return append(lines, line), true
	}
	line.Quantity += lines[i].Quantity
	if line.Quantity > MaxLineQuantity {
		return lines, false
	}
	lines[i] = line
	return lines, true
}

func indexOf(lines []Line, variantID string) int {
	for i := range lines {
		if lines[i].VariantID == variantID {
			return i
		}
	}
	return -1
}

func cloneLines(lines []Line) []Line {
	if len(lines) == 0 {
		return nil
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

func copyValidity(validity LineValidity) LineValidity {
	out := make(LineValidity, len(validity))
	for k, v := range validity {
		out[k] = v
	}
	return out
}
