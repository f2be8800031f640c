//go:build ruleguard

// Package gorules contains custom linting rules for golangci-lint via ruleguard.
// These rules keep report code on the project's logging, error and
// filesystem abstractions.
package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

// NoDirectFileIO flags os file calls in the report writer and dump loader,
// which must go through an afero.Fs so tests can run in memory.
//
// Old pattern:
//
//	f, err := os.OpenFile(path, flags, 0o644)
//
// New pattern:
//
//	f, err := w.fs.OpenFile(path, flags, 0o644)
func NoDirectFileIO(m dsl.Matcher) {
	m.Import("os")

	m.Match(`os.OpenFile($*_)`, `os.Create($_)`, `os.Open($_)`, `os.ReadFile($_)`, `os.WriteFile($*_)`).
		Where(m.File().PkgPath.Matches(`internal/(perfreport|sampledump)$`) && !m.File().Name.Matches(`_test\.go$`)).
		Report("use the injected afero.Fs instead of $$")
}

// NoStdlibLogging flags log and fmt printing in internal packages, which
// must log through internal/logger.
func NoStdlibLogging(m dsl.Matcher) {
	m.Import("log")

	m.Match(`log.Printf($*_)`, `log.Println($*_)`, `log.Print($*_)`, `log.Fatalf($*_)`, `log.Fatal($*_)`).
		Where(m.File().PkgPath.Matches(`/internal/`) && !m.File().PkgPath.Matches(`/internal/logger$`)).
		Report("log through internal/logger instead of the standard log package")

	m.Match(`fmt.Println($*_)`, `fmt.Printf($*_)`).
		Where(m.File().PkgPath.Matches(`/internal/`) && !m.File().Name.Matches(`_test\.go$`)).
		Report("internal packages must not print to stdout, use internal/logger")
}

// EnhancedErrors flags bare errors.New from the standard library in
// internal packages outside internal/errors.
//
// New pattern:
//
//	errors.Newf("scheduler already running").
//		Component("perfreport").
//		Category(errors.CategoryState).
//		Build()
func EnhancedErrors(m dsl.Matcher) {
	m.Import("errors")

	m.Match(`errors.New($msg)`).
		Where(m["msg"].Type.Is("string") &&
			m.File().PkgPath.Matches(`/internal/(perfreport|sampledump|conf)$`) &&
			!m.File().Name.Matches(`_test\.go$`)).
		Report("use internal/errors builder with Component and Category instead of errors.New($msg)")
}

// WaitGroupModernize detects WaitGroup patterns that can use wg.Go().
//
// Old pattern:
//
//	wg.Add(1)
//	go func() {
//	    defer wg.Done()
//	    doSomething()
//	}()
//
// New pattern:
//
//	wg.Go(func() {
//	    doSomething()
//	})
func WaitGroupModernize(m dsl.Matcher) {
	m.Match(`go func() { defer $wg.Done(); $*_ }()`).
		Where(m["wg"].Type.Is("*sync.WaitGroup")).
		Report("Use $wg.Go(func() { ... }) instead of go func() { defer $wg.Done(); ... }()").
		Suggest("$wg.Go(func() { $*_ })")
}
