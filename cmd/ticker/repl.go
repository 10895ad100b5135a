package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ticker/domain/alert"
	"ticker/domain/orderbook"
	"ticker/jobs/simulator"
	"ticker/service"
)

const helpText = `commands:
  quotes                         all symbols
  quote SYM                      one symbol in detail
  buy SYM QTY                    market buy at the current price
  sell SYM QTY                   market sell at the current price
  order buy|sell SYM PRICE QTY   place a limit order
  alert SYM above|below TARGET   set a price alert
  book SYM                       order book depth
  movers                         top gainers and losers
  portfolio                      cash and positions
  history                        transaction log
  stats                          engine counters
  open / close                   start or stop the market simulation
  exit`

type repl struct {
	out    io.Writer
	in     io.Reader
	svc    *service.MarketService
	newSim func() *simulator.Simulator

	cancelSim context.CancelFunc
	simDone   chan struct{}
}

func newRepl(in io.Reader, out io.Writer, svc *service.MarketService, newSim func() *simulator.Simulator) *repl {
	return &repl{in: in, out: out, svc: svc, newSim: newSim}
}

func (r *repl) run() {
	fmt.Fprintln(r.out, "market console ready, type 'help' for commands")

	sc := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "> ")
		if !sc.Scan() {
			break
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			break
		}
		r.dispatch(fields[0], fields[1:])
	}
	r.closeMarket()
}

func (r *repl) dispatch(cmd string, args []string) {
	var err error
	switch cmd {
	case "help":
		fmt.Fprintln(r.out, helpText)
	case "quotes":
		r.printQuotes()
	case "quote":
		err = r.printQuote(args)
	case "buy":
		err = r.marketOrder("BUY", args)
	case "sell":
		err = r.marketOrder("SELL", args)
	case "order":
		err = r.limitOrder(args)
	case "alert":
		err = r.setAlert(args)
	case "book":
		err = r.printBook(args)
	case "movers":
		r.printMovers()
	case "portfolio":
		r.printPortfolio()
	case "history":
		r.printHistory()
	case "stats":
		r.printStats()
	case "open":
		r.openMarket()
	case "close":
		r.closeMarket()
	default:
		fmt.Fprintf(r.out, "unknown command %q, type 'help'\n", cmd)
	}
	if err != nil {
		fmt.Fprintln(r.out, "error:", err)
	}
}

func (r *repl) printQuotes() {
	fmt.Fprintf(r.out, "%-6s %-24s %10s %8s %6s %10s\n", "SYM", "NAME", "PRICE", "CHG%", "TREND", "VOLUME")
	for _, q := range r.svc.Quotes() {
		fmt.Fprintf(r.out, "%-6s %-24s %10.2f %+7.2f%% %6s %10d\n",
			q.Symbol, q.Name, q.Price, q.ChangePct, q.Trend, q.Volume)
	}
}

func (r *repl) printQuote(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: quote SYM")
	}
	q, err := r.svc.Quote(strings.ToUpper(args[0]))
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s (%s)\n", q.Symbol, q.Name)
	fmt.Fprintf(r.out, "  price %.2f  change %+.2f%%  trend %s\n", q.Price, q.ChangePct, q.Trend)
	fmt.Fprintf(r.out, "  high %.2f  low %.2f  volume %d  owned %d\n", q.DailyHigh, q.DailyLow, q.Volume, q.Owned)
	return nil
}

func (r *repl) marketOrder(kind string, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s SYM QTY", strings.ToLower(kind))
	}
	qty, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("bad quantity %q", args[1])
	}

	var tx service.Transaction
	if kind == "BUY" {
		tx, err = r.svc.Buy(strings.ToUpper(args[0]), qty)
	} else {
		tx, err = r.svc.Sell(strings.ToUpper(args[0]), qty)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s %d %s @ %.2f, total %.2f\n", tx.Type, tx.Quantity, tx.Symbol, tx.Price, tx.Total)
	return nil
}

func (r *repl) limitOrder(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: order buy|sell SYM PRICE QTY")
	}
	var side orderbook.Side
	switch strings.ToLower(args[0]) {
	case "buy":
		side = orderbook.Buy
	case "sell":
		side = orderbook.Sell
	default:
		return fmt.Errorf("side must be buy or sell")
	}
	price, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("bad price %q", args[2])
	}
	qty, err := strconv.ParseInt(args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("bad quantity %q", args[3])
	}

	id, err := r.svc.PlaceLimitOrder(side, strings.ToUpper(args[1]), price, qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "order %s accepted\n", id)
	return nil
}

func (r *repl) setAlert(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: alert SYM above|below TARGET")
	}
	var dir alert.Direction
	switch strings.ToLower(args[1]) {
	case "above":
		dir = alert.Above
	case "below":
		dir = alert.Below
	default:
		return fmt.Errorf("direction must be above or below")
	}
	target, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("bad target %q", args[2])
	}

	id, err := r.svc.SetAlert(strings.ToUpper(args[0]), dir, target)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "alert %s set\n", id)
	return nil
}

func (r *repl) printBook(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: book SYM")
	}
	view, err := r.svc.Depth(strings.ToUpper(args[0]), 10)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s @ %.2f\n", view.Symbol, view.Price)
	fmt.Fprintln(r.out, "  asks:")
	for i := len(view.Asks) - 1; i >= 0; i-- {
		l := view.Asks[i]
		fmt.Fprintf(r.out, "    %10.2f x %-6d %s\n", l.Price, l.Qty, l.Origin)
	}
	fmt.Fprintln(r.out, "  bids:")
	for _, l := range view.Bids {
		fmt.Fprintf(r.out, "    %10.2f x %-6d %s\n", l.Price, l.Qty, l.Origin)
	}
	if len(view.Bids) == 0 && len(view.Asks) == 0 {
		fmt.Fprintln(r.out, "  (empty)")
	}
	return nil
}

func (r *repl) printMovers() {
	gainers, losers := r.svc.Movers(5)
	fmt.Fprintln(r.out, "gainers:")
	for _, m := range gainers {
		fmt.Fprintf(r.out, "  %-6s %+7.2f%% @ %.2f\n", m.Symbol, m.Pct, m.Price)
	}
	fmt.Fprintln(r.out, "losers:")
	for _, m := range losers {
		fmt.Fprintf(r.out, "  %-6s %+7.2f%% @ %.2f\n", m.Symbol, m.Pct, m.Price)
	}
}

func (r *repl) printPortfolio() {
	p := r.svc.Portfolio()
	fmt.Fprintf(r.out, "cash %.2f, total value %.2f\n", p.Cash, p.Value)
	for sym, qty := range p.Positions {
		fmt.Fprintf(r.out, "  %-6s %d shares\n", sym, qty)
	}
}

func (r *repl) printHistory() {
	txs := r.svc.History()
	if len(txs) == 0 {
		fmt.Fprintln(r.out, "no transactions yet")
		return
	}
	for _, tx := range txs {
		fmt.Fprintf(r.out, "%s %-4s %5d %-6s @ %.2f = %.2f\n",
			tx.At.Format("15:04:05"), tx.Type, tx.Quantity, tx.Symbol, tx.Price, tx.Total)
	}
}

func (r *repl) printStats() {
	st := r.svc.Stats()
	fmt.Fprintf(r.out, "heap ops %d, orders placed %d, trades executed %d\n",
		st.HeapOps, st.OrdersPlaced, st.TradesExecuted)
	fmt.Fprintf(r.out, "alerts: %d pending, %d triggered\n", st.PendingAlerts, st.TriggeredAlerts)
}

func (r *repl) openMarket() {
	if r.cancelSim != nil {
		fmt.Fprintln(r.out, "market already open")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sim := r.newSim()
	go func() {
		sim.Run(ctx)
		close(done)
	}()
	r.cancelSim = cancel
	r.simDone = done
	fmt.Fprintln(r.out, "market open")
}

func (r *repl) closeMarket() {
	if r.cancelSim == nil {
		return
	}
	r.cancelSim()
	select {
	case <-r.simDone:
	case <-time.After(time.Second):
	}
	r.cancelSim = nil
	r.simDone = nil
	fmt.Fprintln(r.out, "market closed")
}
