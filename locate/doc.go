// Package locate provides the detection stages of the extraction pipeline:
// finding the page where a numbered chapter begins and finding the vertical
// positions of verse markers within a chapter's pages.
//
// Detection works purely on visual and layout evidence (text patterns, font
// weight, font size, color, position); it never consults document metadata
// or bookmarks.
//
// # Detectors
//
//   - [ChapterLocator] - resolves a chapter number to its start page using
//     an exact-title table, number-anchored patterns, and layout indicators
//   - [VerseScanner] - builds a position index of scored verse-marker
//     candidates across a chapter's page window, with optional preface
//     detection for verse 1
//
// Both follow the same configuration pattern: a Config struct with a
// Default constructor, and NewXxx / NewXxxWithConfig factories.
//
// # Scoring
//
// Verse candidates are scored by a pluggable [ScorePolicy], a pure function
// from styled-run evidence to an integer confidence. The default policy
// weighs bold +3, leading position +2, large font +1, and short digit
// strings +1; candidates scoring below 2 are discarded.
//
// # Run State
//
// [Assignments] carries the run-wide chapter-to-page assignment table, the
// derived page exclusion set, and the known-page override table. It is
// threaded explicitly through locator calls so that no two chapters can
// resolve to the same page within one run.
package locate
