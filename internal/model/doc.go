// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and drafts.
//
// # Key Types
//
//   - Message: a single chat turn with role, content, and a voice-origin flag
//   - Conversation: ordered message history with bounded length and
//     auto-generated titles
//   - Draft: unsent input text with a staleness window, restored on startup
//
// Conversations prune oldest messages past MaxMessages so a long-lived chat
// cannot grow without bound.
package model
