// Package ui implements an interactive flashcard study terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for studying a song's lyrics:
//  1. [LoadingView] : Generate the deck, showing pipeline progress
//  2. [StudyView] : Flip cards and mark each as known or for another pass
//  3. [CardListView] : Browse and filter every card of the deck
//  4. [ResultView] : Round score, the song's mood, and a review round for missed cards
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the tasks.Engine, providing non-blocking status reporting during generation.
//
// Keyboard navigation uses vim-style bindings (space, y/n, h/l, tab, esc, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
