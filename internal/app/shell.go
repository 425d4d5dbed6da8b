package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cafebill/internal/domain"
	"github.com/vladislavdragonenkov/cafebill/internal/invoice"
	"github.com/vladislavdragonenkov/cafebill/internal/session"
)

const prompt = "> "

const helpText = `Commands:
  menu                       show items and prices
  sizes <item>               show sizes for an item
  add <item> <size> [qty]    add a line to the order (qty defaults to 1)
  order                      show the current order
  total                      show the running total
  clear                      drop every line of the order
  invoice text|pdf|all       write an invoice for the current order
  history                    show what happened in this session
  help                       show this help
  exit | quit                leave the shell
`

// Shell — интерактивная касса поверх сессии. Команды выполняются строго по одной.
type Shell struct {
	session  *session.Session
	title    string
	currency string
	out      io.Writer
	logger   *log.Entry
}

// NewShell создаёт оболочку, печатающую в out.
func NewShell(s *session.Session, title, currency string, out io.Writer, logger *log.Entry) *Shell {
	if logger == nil {
		logger = log.New().WithField("component", "shell")
	}
	return &Shell{session: s, title: title, currency: currency, out: out, logger: logger}
}

// Run читает команды из in до exit, EOF или отмены ctx.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	sh.printf("=== %s - Billing System ===\nType help for commands.\n", sh.title)
	for {
		sh.printf(prompt)
		select {
		case <-ctx.Done():
			sh.printf("\n")
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				sh.printf("\n")
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if quit := sh.Execute(line); quit {
				return nil
			}
		}
	}
}

// Execute выполняет одну команду. Возвращает true, если нужно выйти.
func (sh *Shell) Execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "exit", "quit":
		return true
	case "help", "?":
		sh.printf(helpText)
	case "menu", "items":
		sh.printMenu()
	case "sizes":
		sh.sizes(strings.Join(args, " "))
	case "add":
		sh.add(args)
	case "order", "show":
		sh.printOrder()
	case "total":
		sh.printf("Total: %s\n", sh.money(sh.session.Total()))
	case "clear":
		sh.session.Clear()
		sh.printf("Order cleared. Total: %s\n", sh.money(0))
	case "invoice":
		sh.invoice(args)
	case "history":
		sh.printHistory()
	default:
		sh.printf("Unknown command %q, type help\n", cmd)
	}
	return false
}

func (sh *Shell) sizes(name string) {
	catalog := sh.session.Catalog()
	item, err := catalog.Resolve(name)
	if err != nil {
		sh.printErr(err)
		return
	}
	sizes, err := sh.session.SizesFor(item)
	if err != nil {
		sh.printErr(err)
		return
	}
	sh.printf("%s: %s\n", item, strings.Join(sizes, ", "))
}

func (sh *Shell) add(args []string) {
	item, size, qty, err := ParseLine(sh.session.Catalog(), args)
	if err != nil {
		sh.printErr(err)
		return
	}
	total, err := sh.session.Add(item, size, qty)
	if err != nil {
		sh.printErr(err)
		return
	}
	lines := sh.session.Snapshot().Lines()
	last := lines[len(lines)-1]
	sh.printf("Added %s %s x%d: %s. Total: %s\n", last.Size, last.Item, last.Qty, sh.money(last.LineTotal), sh.money(total))
}

func (sh *Shell) invoice(args []string) {
	format := invoice.FormatText
	if len(args) > 0 {
		format = strings.ToLower(args[0])
	}

	var (
		paths []string
		err   error
	)
	if format == "all" {
		paths, err = sh.session.InvoiceAll()
	} else {
		var path string
		path, err = sh.session.Invoice(format)
		if err == nil {
			paths = append(paths, path)
		}
	}
	for _, path := range paths {
		sh.printf("Invoice saved as: %s\n", path)
	}
	if err != nil {
		sh.printErr(err)
	}
}

func (sh *Shell) printMenu() {
	tw := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	for _, entry := range sh.session.Catalog().Entries() {
		prices := make([]string, 0, len(entry.Sizes))
		for _, size := range entry.Sizes {
			prices = append(prices, fmt.Sprintf("%s %s", size.Label, sh.money(size.Price)))
		}
		fmt.Fprintf(tw, "%s\t%s\n", entry.Name, strings.Join(prices, ", "))
	}
	_ = tw.Flush()
}

func (sh *Shell) printOrder() {
	snapshot := sh.session.Snapshot()
	if snapshot.Len() == 0 {
		sh.printf("Order is empty.\n")
		return
	}
	tw := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tItem\tSize\tQty\tPrice")
	for i, line := range snapshot.Lines() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", i+1, line.Item, line.Size, line.Qty, sh.money(line.LineTotal))
	}
	_ = tw.Flush()
	sh.printf("Total: %s\n", sh.money(snapshot.Total()))
}

func (sh *Shell) printHistory() {
	events, err := sh.session.History()
	if err != nil {
		sh.printErr(err)
		return
	}
	if len(events) == 0 {
		sh.printf("Nothing happened yet.\n")
		return
	}
	for _, event := range events {
		sh.printf("%s  %-17s %s (total %s)\n", event.Occurred.Local().Format("15:04:05"), event.Type, event.Detail, sh.money(event.Total))
	}
}

func (sh *Shell) printErr(err error) {
	sh.printf("Error: %v\n", err)
}

func (sh *Shell) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(sh.out, format, args...); err != nil {
		sh.logger.WithError(err).Debug("shell output failed")
	}
}

func (sh *Shell) money(amount int64) string {
	return sh.currency + strconv.FormatInt(amount, 10)
}

// ParseLine разбирает «<item> <size> [qty]»: название позиции может состоять из
// нескольких слов, размер — последнее слово перед количеством. Регистр не важен.
// Числовое последнее слово считается размером, только если так находится пара
// позиция/размер из меню, а как количество — нет.
// Нераспознанные названия возвращаются как есть, чтобы ошибку выдала сессия.
func ParseLine(catalog *domain.Catalog, args []string) (item, size string, qty int, err error) {
	qty = 1
	if n := len(args); n > 0 {
		raw := strings.TrimPrefix(strings.ToLower(args[n-1]), "x")
		v, convErr := strconv.Atoi(raw)
		numeric := convErr == nil || errors.Is(convErr, strconv.ErrRange)
		sizeLabel := inCatalog(catalog, args) && !inCatalog(catalog, args[:n-1])
		if numeric && !sizeLabel {
			if convErr != nil {
				return "", "", 0, fmt.Errorf("%w: %q", domain.ErrInvalidQuantity, args[n-1])
			}
			qty = v
			args = args[:n-1]
		}
	}
	if len(args) < 2 {
		return "", "", 0, domain.ErrFieldRequired
	}

	item, size = resolveNames(catalog, strings.Join(args[:len(args)-1], " "), args[len(args)-1])
	return item, size, qty, nil
}

// inCatalog сообщает, образуют ли слова args пару «позиция размер» из меню.
func inCatalog(catalog *domain.Catalog, args []string) bool {
	if len(args) < 2 {
		return false
	}
	item, err := catalog.Resolve(strings.Join(args[:len(args)-1], " "))
	if err != nil {
		return false
	}
	_, err = catalog.ResolveSize(item, args[len(args)-1])
	return err == nil
}

// resolveNames приводит ввод к точным названиям меню, если они находятся.
func resolveNames(catalog *domain.Catalog, item, size string) (string, string) {
	resolved, err := catalog.Resolve(item)
	if err != nil {
		return item, size
	}
	if resolvedSize, err := catalog.ResolveSize(resolved, size); err == nil {
		size = resolvedSize
	}
	return resolved, size
}
