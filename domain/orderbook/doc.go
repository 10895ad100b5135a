// Package orderbook implements the per-symbol limit order book and its
// continuous matching algorithm. Each side is a priority queue under
// price-time priority: bids prefer higher prices, asks lower, with the
// submission sequence breaking ties in favor of earlier orders.
//
// Queue entries are value snapshots taken at submission; matching restores
// unconsumed and partially consumed orders by re-pushing them, so after
// every Submit the book sits at a fixed point where no bid crosses any ask.
package orderbook
