// Package commit parses raw git commit objects into templates whose author and
// committer timestamps can be re-rendered without changing the object length.
//
// A Template aliases the bytes it was parsed from; it is never modified after
// Parse returns and is safe to share between goroutines.
package commit
