// Package cfgflag holds the set of debug/behavior toggles controllable
// from the environment, modeled directly on the teacher's own
// internal/envflag + internal/cuedebug pair: a generic comma-separated
// boolean-flag parser plus a package-level Config populated once from
// environment variables.
//
// cuedebug.Config mixes bool fields (parsed generically by envflag.Parse)
// with a non-bool one (LogEval int) that envflag.Parse's reflect-based
// SetBool call cannot actually touch — it is set some other way entirely
// (ad hoc, by the evaluator's own test setup) and just rides along in the
// same struct for documentation's sake. Rather than carry that trap
// forward, Parse here only touches fields it can see are bool-kinded via
// reflect.Kind, and the non-bool toggles (LogEval, CacheMode) are parsed
// from their own dedicated environment variables in Init.
package cfgflag

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// CacheMode selects how internal/pkgcache treats a project's on-disk
// analysis cache (§6.3's `mode ∈ {off, read, write, read-write}`).
type CacheMode string

const (
	CacheReadWrite CacheMode = "read-write"
	CacheReadOnly  CacheMode = "read"
	CacheWriteOnly CacheMode = "write"
	CacheOff       CacheMode = "off"
)

// Config holds the set of known AOT_DEBUG flags (§A.3).
type Config struct {
	// StripSourced omits provenance (Sourced[T].Span/Confidence) from
	// inspect/snapshot JSON output, for diffing two analyses without
	// span-offset churn drowning out real changes.
	StripSourced bool

	// TraceBind causes internal/bind to log every frame allocation and
	// $parent ancestor-hop resolution it performs.
	TraceBind bool

	// LogEval sets the partial-evaluator's log verbosity: 0 disables it,
	// 1 logs per-file scope resolution, 2 additionally logs per-value
	// resolveInScope steps. Parsed from AOT_LOG_EVAL, not AOT_DEBUG,
	// since it is not a boolean toggle.
	LogEval int

	// CacheMode controls internal/pkgcache's read/write behavior.
	// Parsed from AOT_CACHE_MODE, defaulting to CacheReadWrite.
	CacheMode CacheMode
}

// Flags holds the process-wide Config. It is initialized by Init.
var Flags Config

// Init initializes Flags from AOT_DEBUG, AOT_LOG_EVAL, and AOT_CACHE_MODE.
// Safe to call more than once; only the first call has effect.
func Init() error {
	return initOnce()
}

var initOnce = sync.OnceValue(func() error {
	if err := Parse(&Flags, os.Getenv("AOT_DEBUG")); err != nil {
		return err
	}
	if v := os.Getenv("AOT_LOG_EVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("cannot parse AOT_LOG_EVAL: %w", err)
		}
		Flags.LogEval = n
	}
	Flags.CacheMode = CacheReadWrite
	if v := os.Getenv("AOT_CACHE_MODE"); v != "" {
		switch CacheMode(v) {
		case CacheReadWrite, CacheReadOnly, CacheWriteOnly, CacheOff:
			Flags.CacheMode = CacheMode(v)
		default:
			return fmt.Errorf("cannot parse AOT_CACHE_MODE: unknown mode %q", v)
		}
	}
	return nil
})

// Parse initializes flags' bool-kinded fields from the struct field tags
// (`cfgflag:"default:true"`) and then from env, a comma-separated list of
// name[=value] pairs. Non-bool fields are left untouched. See
// internal/envflag.Parse in the teacher for the pattern this mirrors.
func Parse[T any](flags *T, env string) error {
	indexByName := make(map[string]int)
	fv := reflect.ValueOf(flags).Elem()
	ft := fv.Type()
	for i := 0; i < ft.NumField(); i++ {
		field := ft.Field(i)
		if field.Type.Kind() != reflect.Bool {
			continue
		}
		if tagStr, ok := field.Tag.Lookup("cfgflag"); ok {
			defaultStr, ok := strings.CutPrefix(tagStr, "default:")
			if !ok {
				return fmt.Errorf("expected tag like `cfgflag:\"default:true\"`: %s", tagStr)
			}
			v, err := strconv.ParseBool(defaultStr)
			if err != nil {
				return fmt.Errorf("invalid default bool value for %s: %v", field.Name, err)
			}
			fv.Field(i).SetBool(v)
		}
		indexByName[strings.ToLower(field.Name)] = i
	}

	if env == "" {
		return nil
	}
	var errs []error
	for _, elem := range strings.Split(env, ",") {
		name, valueStr, ok := strings.Cut(elem, "=")
		value := true
		if ok {
			v, err := strconv.ParseBool(valueStr)
			if err != nil {
				return fmt.Errorf("invalid bool value for %s: %w", name, err)
			}
			value = v
		}
		index, ok := indexByName[name]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown %s", elem))
			continue
		}
		fv.Field(index).SetBool(value)
	}
	return errors.Join(errs...)
}
