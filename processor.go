package jsondoc

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cybergodev/jsondoc/internal"
)

// Processor runs document operations over JSON text with size and depth
// limits, a cache of parsed pointers and selectors, metrics and structured
// logging. It is safe for concurrent use.
type Processor struct {
	config    *Config
	parseOpts []ParseOption
	cache     *internal.CacheManager
	metrics   *internal.MetricsCollector
	logger    atomic.Pointer[slog.Logger]

	state          int32 // 0=active, 1=closing, 2=closed
	closeOnce      sync.Once
	operationCount int64
	errorCount     int64
}

// New creates a processor with the given configuration, or the default one
func New(config ...*Config) *Processor {
	var cfg *Config
	if len(config) > 0 && config[0] != nil {
		cfg = config[0].Clone()
	} else {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	p := &Processor{
		config:    cfg,
		parseOpts: cfg.parseOptions(),
		cache:     internal.NewCacheManager(cfg),
		metrics:   internal.NewMetricsCollector(),
	}
	p.SetLogger(nil)
	return p
}

// SetLogger replaces the processor's logger; nil restores slog.Default()
func (p *Processor) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	p.logger.Store(logger.With("component", "jsondoc-processor"))
}

// Config returns a copy of the processor's configuration
func (p *Processor) Config() *Config {
	return p.config.Clone()
}

// Close releases cached state. Operations on a closed processor fail with
// ErrProcessorClosed.
func (p *Processor) Close() error {
	p.closeOnce.Do(func() {
		atomic.StoreInt32(&p.state, 1)
		p.cache.ClearCache()
		atomic.StoreInt32(&p.state, 2)
	})
	return nil
}

// IsClosed reports whether Close has completed
func (p *Processor) IsClosed() bool {
	return atomic.LoadInt32(&p.state) == 2
}

func (p *Processor) checkClosed() error {
	if atomic.LoadInt32(&p.state) != 0 {
		return ErrProcessorClosed
	}
	return nil
}

// execute runs fn as the named operation, recording metrics and logging failures
func (p *Processor) execute(op, path string, size int, fn func() error) error {
	if err := p.checkClosed(); err != nil {
		return newOperationError(op, path, err)
	}

	atomic.AddInt64(&p.operationCount, 1)
	if p.config.EnableMetrics {
		p.metrics.StartConcurrentOperation()
		defer p.metrics.EndConcurrentOperation()
	}

	start := time.Now()
	err := newOperationError(op, path, fn())
	duration := time.Since(start)

	if err != nil {
		atomic.AddInt64(&p.errorCount, 1)
		p.logError(op, path, err)
	} else {
		p.logOperation(op, path, duration)
	}
	if p.config.EnableMetrics {
		p.metrics.RecordOperation(op, duration, err == nil, int64(size))
	}
	return err
}

// parseDocument parses doc within the configured limits
func (p *Processor) parseDocument(doc string) (Value, error) {
	if int64(len(doc)) > p.config.MaxDocumentSize {
		return Value{}, ErrSizeLimit
	}
	v, err := Parse(doc)
	if err != nil {
		return Value{}, err
	}
	if v.Depth() > p.config.MaxNestingDepth {
		return Value{}, ErrDepthLimit
	}
	return v, nil
}

func (p *Processor) parseObject(doc string) (*Object, error) {
	v, err := p.parseDocument(doc)
	if err != nil {
		return nil, err
	}
	return v.AsObject()
}

func (p *Processor) checkExpression(expr string) error {
	if len(expr) > MaxExpressionLength {
		return ErrSizeLimit
	}
	return nil
}

// pointer parses expr, consulting the cache first
func (p *Processor) pointer(expr string) (Pointer, error) {
	if err := p.checkExpression(expr); err != nil {
		return Pointer{}, err
	}
	key := "p:" + expr
	if cached, ok := p.cache.Get(key); ok {
		p.recordCache(true)
		return cached.(Pointer), nil
	}
	p.recordCache(false)

	ptr, err := ParsePointer(expr, p.parseOpts...)
	if err != nil {
		return Pointer{}, err
	}
	p.cache.Set(key, ptr)
	return ptr, nil
}

// selector parses expr, consulting the cache first
func (p *Processor) selector(expr string) (*FieldSelector, error) {
	if err := p.checkExpression(expr); err != nil {
		return nil, err
	}
	key := "s:" + expr
	if cached, ok := p.cache.Get(key); ok {
		p.recordCache(true)
		return cached.(*FieldSelector), nil
	}
	p.recordCache(false)

	sel, err := ParseFieldSelector(expr, p.parseOpts...)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, sel)
	return sel, nil
}

func (p *Processor) recordCache(hit bool) {
	if !p.config.EnableMetrics || !p.config.IsCacheEnabled() {
		return
	}
	if hit {
		p.metrics.RecordCacheHit()
	} else {
		p.metrics.RecordCacheMiss()
	}
}

// Parse parses doc within the configured limits
func (p *Processor) Parse(doc string) (Value, error) {
	var result Value
	err := p.execute("parse", "", len(doc), func() error {
		v, err := p.parseDocument(doc)
		result = v
		return err
	})
	return result, err
}

// Validate reports whether doc is well-formed JSON within the configured limits
func (p *Processor) Validate(doc string) error {
	return p.execute("validate", "", len(doc), func() error {
		_, err := p.parseDocument(doc)
		return err
	})
}

// Get returns the value at pointer. The empty pointer yields the whole
// document; any other pointer requires an object document and fails with
// ErrMissingField when nothing is stored there.
func (p *Processor) Get(doc, pointer string) (Value, error) {
	var result Value
	err := p.execute("get", pointer, len(doc), func() error {
		ptr, err := p.pointer(pointer)
		if err != nil {
			return err
		}
		root, err := p.parseDocument(doc)
		if err != nil {
			return err
		}
		if ptr.IsEmpty() {
			result = root
			return nil
		}
		obj, err := root.AsObject()
		if err != nil {
			return err
		}
		v, ok := obj.ValueAt(ptr)
		if !ok {
			return &MissingFieldError{Pointer: ptr}
		}
		result = v
		return nil
	})
	return result, err
}

// Set stores the JSON text value at pointer and returns the new document
func (p *Processor) Set(doc, pointer, value string) (string, error) {
	var result string
	err := p.execute("set", pointer, len(doc)+len(value), func() error {
		ptr, err := p.pointer(pointer)
		if err != nil {
			return err
		}
		obj, err := p.parseObject(doc)
		if err != nil {
			return err
		}
		v, err := p.parseDocument(value)
		if err != nil {
			return err
		}
		updated, err := obj.SetAt(ptr, v)
		if err != nil {
			return err
		}
		if updated.AsValue().Depth() > p.config.MaxNestingDepth {
			return ErrDepthLimit
		}
		result = updated.String()
		return nil
	})
	return result, err
}

// Remove deletes the value at pointer and returns the new document. A
// pointer naming nothing leaves the document unchanged.
func (p *Processor) Remove(doc, pointer string) (string, error) {
	var result string
	err := p.execute("remove", pointer, len(doc), func() error {
		ptr, err := p.pointer(pointer)
		if err != nil {
			return err
		}
		obj, err := p.parseObject(doc)
		if err != nil {
			return err
		}
		result = obj.RemoveAt(ptr).String()
		return nil
	})
	return result, err
}

// Select projects the document onto the selector expression
func (p *Processor) Select(doc, selector string) (string, error) {
	var result string
	err := p.execute("select", selector, len(doc), func() error {
		sel, err := p.selector(selector)
		if err != nil {
			return err
		}
		obj, err := p.parseObject(doc)
		if err != nil {
			return err
		}
		result = obj.Select(sel).String()
		return nil
	})
	return result, err
}

// Diff returns the merge patch turning oldDoc into newDoc
func (p *Processor) Diff(oldDoc, newDoc string) (string, error) {
	var result string
	err := p.execute("diff", "", len(oldDoc)+len(newDoc), func() error {
		oldValue, err := p.parseDocument(oldDoc)
		if err != nil {
			return err
		}
		newValue, err := p.parseDocument(newDoc)
		if err != nil {
			return err
		}
		result = ComputeMergePatch(oldValue, newValue).String()
		return nil
	})
	return result, err
}

// Patch applies a merge patch to doc and returns the new document
func (p *Processor) Patch(doc, patch string) (string, error) {
	var result string
	err := p.execute("patch", "", len(doc)+len(patch), func() error {
		target, err := p.parseDocument(doc)
		if err != nil {
			return err
		}
		patchValue, err := p.parseDocument(patch)
		if err != nil {
			return err
		}
		result = ApplyMergePatch(patchValue, target).String()
		return nil
	})
	return result, err
}
