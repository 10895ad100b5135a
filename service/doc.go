// Package service orchestrates the price store, order books, leaderboard,
// alert engine, and user ledger.
//
// MarketService is the ONLY write entry point into the system. Every
// mutation sequence "price update → leaderboard push → alert scan" runs
// under one lock, shared by the foreground command path and the background
// simulator, so alerts never fire on a stale price.
package service
