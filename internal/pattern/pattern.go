// Package pattern reads utterances with an ordered list of regular expressions
// instead of a grammar. It recognizes a wider range of loose phrasings than the
// grammar does, at the cost of only ever knowing about the fixed set of
// sentence shapes below.
package pattern

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/HienLe2004/menuq/internal/lex"
	"github.com/HienLe2004/menuq/internal/menu"
	"github.com/HienLe2004/menuq/internal/mqerrors"
	"github.com/HienLe2004/menuq/internal/semantic"
)

// Names of the relations produced by a Matcher.
const (
	Pred  = "PRED"
	Theme = "THEME"
	Quant = "QUANT"
	Unit  = "UNIT"
	Attr  = "ATTR"
	Time  = "TIME"
)

// Relation is a single semantic relation tuple read out of an utterance, such
// as THEME(phở bò).
type Relation struct {
	Name  string
	Value string
}

func (r Relation) String() string {
	return fmt.Sprintf("%s(%s)", r.Name, r.Value)
}

// Relations is the full set of relations read from one utterance. The first
// is always the PRED relation.
type Relations []Relation

func (rs Relations) String() string {
	parts := make([]string, len(rs))
	for i := range rs {
		parts[i] = rs[i].String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Get returns the value of the first relation with the given name.
func (rs Relations) Get(name string) (string, bool) {
	for _, r := range rs {
		if r.Name == name {
			return r.Value, true
		}
	}
	return "", false
}

// All returns the values of every relation with the given name, in order.
func (rs Relations) All(name string) []string {
	var vals []string
	for _, r := range rs {
		if r.Name == name {
			vals = append(vals, r.Value)
		}
	}
	return vals
}

var (
	reCancelRequest = []*regexp.Regexp{
		regexp.MustCompile(`^(?:.*\s)?(?:hủy|xóa|bỏ)(?:\s+(?:hết|tất cả|toàn bộ))?\s+đơn(?:\s+hàng)?(?:\s+(?:đi|nhé|nha|giúp tôi))*$`),
		regexp.MustCompile(`^(?:.*\s)?(?:hủy|xóa|bỏ)\s+(?:hết|tất cả|toàn bộ)(?:\s+(?:đi|nhé|nha|giúp tôi))*$`),
	}
	reModifyItem  = regexp.MustCompile(`^(?:.*\s)?(?:thay đổi|đổi|sửa|chỉnh)\s+(?:lại\s+)?(?:món\s+)?(.+?)\s+(?:thành|lên|xuống|còn)\s+(\d+)(?:\s+(.+?))?(?:\s+(?:đi|nhé|nha))*$`)
	reCancelItem  = regexp.MustCompile(`^(?:.*\s)?(?:không lấy|hủy|xóa|bỏ)\s+(?:món\s+)?(.+?)(?:\s+(?:ra|đi|nhé|nha|giúp tôi))*$`)
	reAskTotal    = regexp.MustCompile(`(?:^|\s)(?:tổng(?:\s+(?:cộng|tiền))?|tính tiền|hết bao nhiêu)(?:\s|$)`)
	reAskMyOrder  = regexp.MustCompile(`(?:^|\s)(?:đơn(?:\s+hàng)?\s+của\s+(?:tôi|mình|em)|(?:tôi|mình|em)\s+đã\s+(?:đặt|gọi)|đã\s+gọi\s+những\s+gì)(?:\s|$)`)
	reAskMenu     = regexp.MustCompile(`(?:^|\s)(?:menu|thực đơn|có\s+(?:những\s+)?món\s+(?:gì|nào))(?:\s|$)`)
	reAskPriceSuf = regexp.MustCompile(`^(?:món\s+)?(.+?)\s+(?:giá\s+bao\s+nhiêu|bao\s+nhiêu\s+tiền|giá\s+thế\s+nào|giá\s+sao)(?:\s+(?:vậy|ạ|thế))*$`)
	reAskPricePre = regexp.MustCompile(`^(?:cho\s+(?:tôi|mình)\s+hỏi\s+)?giá\s+(?:của\s+)?(?:món\s+)?(.+?)(?:\s+(?:là|bao nhiêu|là bao nhiêu|vậy|ạ))*$`)
	reAskAvail    = regexp.MustCompile(`^(?:.*\s)?(?:có|còn)\s+(?:món\s+)?(.+?)\s+không(?:\s+(?:vậy|ạ|nhỉ))*$`)
	reAddItem     = regexp.MustCompile(`^(?:.*\s)?(?:cho|lấy|đặt|thêm|gọi|muốn)(?:\s+(?:mình|tôi|em|anh|chị|thêm))*\s+(.+)$`)
	reTime        = regexp.MustCompile(`(?:^|\s)(?:(?:giao lúc|vào lúc|lúc|vào|giao)\s+)?(\d+\s+giờ(?:\s+(?:sáng|trưa|chiều|tối))?)(?:\s|$)`)
	reParticles   = regexp.MustCompile(`(?:(?:^|\s+)(?:nhé|nha|đi|với|ạ|vào đơn|nữa))+$`)
)

// Matcher reads relations out of utterances. It resolves item names against a
// menu; an item phrase that names nothing on the menu is kept as-is so that
// later stages can say the item is unavailable.
type Matcher struct {
	menu  *menu.Menu
	names []string
	units []string
}

// NewMatcher creates a Matcher that resolves items against m.
func NewMatcher(m *menu.Menu) *Matcher {
	return &Matcher{
		menu:  m,
		names: byLengthDesc(m.Names()),
		units: byLengthDesc(m.Units()),
	}
}

func byLengthDesc(words []string) []string {
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len([]rune(sorted[i])) > len([]rune(sorted[j]))
	})
	return sorted
}

// Parse reads the relations of text. Patterns are tried in a fixed order and
// the first to match decides the intent. If no pattern matches, or the
// matching pattern is missing a required part, the returned error wraps
// mqerrors.ErrUnmappedIntent.
func (mt *Matcher) Parse(text string) (Relations, error) {
	s := lex.Normalize(text)
	if s == "" {
		return nil, fmt.Errorf("empty utterance: %w", mqerrors.ErrUnmappedIntent)
	}

	for _, re := range reCancelRequest {
		if re.MatchString(s) {
			return Relations{{Pred, semantic.CancelRequest.String()}}, nil
		}
	}

	if m := reModifyItem.FindStringSubmatch(s); m != nil {
		rels := Relations{{Pred, semantic.ModifyItem.String()}}
		rels = append(rels, Relation{Theme, mt.resolveItem(m[1])})
		rels = append(rels, Relation{Quant, m[2]})
		if u := mt.leadingUnit(m[3]); u != "" {
			rels = append(rels, Relation{Unit, u})
		}
		return rels, nil
	}

	if m := reCancelItem.FindStringSubmatch(s); m != nil {
		return Relations{
			{Pred, semantic.CancelItem.String()},
			{Theme, mt.resolveItem(m[1])},
		}, nil
	}

	if reAskTotal.MatchString(s) {
		return Relations{{Pred, semantic.AskTotal.String()}}, nil
	}
	if reAskMyOrder.MatchString(s) {
		return Relations{{Pred, semantic.AskMyOrder.String()}}, nil
	}
	if reAskMenu.MatchString(s) {
		return Relations{{Pred, semantic.AskMenu.String()}}, nil
	}

	for _, re := range []*regexp.Regexp{reAskPriceSuf, reAskPricePre} {
		if m := re.FindStringSubmatch(s); m != nil {
			return Relations{
				{Pred, semantic.AskPrice.String()},
				{Theme, mt.resolveItem(m[1])},
			}, nil
		}
	}

	if m := reAskAvail.FindStringSubmatch(s); m != nil {
		return Relations{
			{Pred, semantic.AskAvailability.String()},
			{Theme, mt.resolveItem(m[1])},
		}, nil
	}

	if m := reAddItem.FindStringSubmatch(s); m != nil {
		return mt.parseAddItem(m[1])
	}

	return nil, fmt.Errorf("%q matches no known sentence pattern: %w", s, mqerrors.ErrUnmappedIntent)
}

// parseAddItem reads the slots of an order from the text following the verb,
// such as "2 tô phở bò tái lúc 12 giờ trưa".
func (mt *Matcher) parseAddItem(span string) (Relations, error) {
	var timeVal string
	if m := reTime.FindStringSubmatchIndex(span); m != nil {
		timeVal = span[m[2]:m[3]]
		span = strings.TrimSpace(span[:m[0]] + " " + span[m[1]:])
	}

	qty := 1
	if fields := strings.Fields(span); len(fields) > 0 {
		if n, err := strconv.Atoi(fields[0]); err == nil {
			if n > 0 {
				qty = n
			}
			span = strings.TrimSpace(strings.TrimPrefix(span, fields[0]))
		}
	}

	unit := mt.leadingUnit(span)
	if unit != "" {
		span = strings.TrimSpace(strings.TrimPrefix(span, unit))
	}
	span = strings.TrimPrefix(span, "món ")

	item, rest := mt.findItem(span)
	var attrs []string
	if item != "" {
		attrs = mt.findOptions(item, rest)
	} else {
		item = strings.TrimSpace(reParticles.ReplaceAllString(span, ""))
	}
	if item == "" {
		return nil, fmt.Errorf("order names no item: %w", mqerrors.ErrUnmappedIntent)
	}

	rels := Relations{
		{Pred, semantic.AddItem.String()},
		{Theme, item},
		{Quant, strconv.Itoa(qty)},
	}
	if unit != "" {
		rels = append(rels, Relation{Unit, unit})
	}
	for _, a := range attrs {
		rels = append(rels, Relation{Attr, a})
	}
	if timeVal != "" {
		rels = append(rels, Relation{Time, timeVal})
	}
	return rels, nil
}

// resolveItem returns the longest menu name contained in phrase, or the
// phrase itself with trailing particles removed if it names no menu item.
func (mt *Matcher) resolveItem(phrase string) string {
	if item, _ := mt.findItem(phrase); item != "" {
		return item
	}
	return strings.TrimSpace(reParticles.ReplaceAllString(phrase, ""))
}

// findItem returns the longest menu name that appears as whole words in s,
// along with the part of s after it.
func (mt *Matcher) findItem(s string) (item string, rest string) {
	for _, name := range mt.names {
		if idx := indexWord(s, name); idx >= 0 {
			return name, strings.TrimSpace(s[idx+len(name):])
		}
	}
	return "", ""
}

// findOptions returns the options of item that appear as whole words in s,
// in the order they appear. Longer options win over options they contain.
func (mt *Matcher) findOptions(item, s string) []string {
	it, ok := mt.menu.Lookup(item)
	if !ok {
		return nil
	}

	type found struct {
		pos int
		opt string
	}
	var hits []found
	remaining := s
	for _, opt := range byLengthDesc(it.Options) {
		if idx := indexWord(remaining, opt); idx >= 0 {
			hits = append(hits, found{pos: idx, opt: opt})
			// blank out the match so that shorter options inside it are not
			// found again
			remaining = remaining[:idx] + strings.Repeat(" ", len(opt)) + remaining[idx+len(opt):]
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	opts := make([]string, len(hits))
	for i := range hits {
		opts[i] = hits[i].opt
	}
	return opts
}

func (mt *Matcher) leadingUnit(s string) string {
	for _, u := range mt.units {
		if s == u || strings.HasPrefix(s, u+" ") {
			return u
		}
	}
	return ""
}

// indexWord returns the byte index of the first occurrence of w in s that
// starts and ends on a word boundary, or -1.
func indexWord(s, w string) int {
	if w == "" {
		return -1
	}
	offset := 0
	for {
		idx := strings.Index(s[offset:], w)
		if idx < 0 {
			return -1
		}
		start := offset + idx
		end := start + len(w)
		if (start == 0 || s[start-1] == ' ') && (end == len(s) || s[end] == ' ') {
			return start
		}
		offset = start + 1
	}
}

// ToRecord converts relations into a semantic record. Relations with no PRED,
// or with a PRED that names no intent, give a semantic.Invalid.
func ToRecord(rels Relations) semantic.Record {
	pred, ok := rels.Get(Pred)
	if !ok {
		return semantic.Invalid{Reason: fmt.Errorf("no predicate: %w", mqerrors.ErrUnmappedIntent)}
	}
	intent, err := semantic.ParseIntent(pred)
	if err != nil {
		return semantic.Invalid{Reason: fmt.Errorf("%s: %w", err.Error(), mqerrors.ErrUnmappedIntent)}
	}

	item, _ := rels.Get(Theme)
	qty := 1
	if q, ok := rels.Get(Quant); ok {
		if n, err := strconv.Atoi(q); err == nil {
			qty = n
		}
	}
	tm, _ := rels.Get(Time)

	var rec semantic.Record
	switch intent {
	case semantic.AddItem:
		rec, err = semantic.NewPlacement(intent, item, qty, rels.All(Attr), tm)
	case semantic.CancelItem:
		rec, err = semantic.NewRemoval(intent, item)
	case semantic.ModifyItem:
		rec = semantic.Modification{Item: item, Quantity: qty}
	case semantic.CancelRequest:
		rec = semantic.Cancellation{}
	case semantic.AskPrice, semantic.AskAvailability:
		rec, err = semantic.NewItemQuery(intent, item)
	case semantic.AskMenu, semantic.AskMyOrder, semantic.AskTotal:
		rec, err = semantic.NewOrderQuery(intent)
	default:
		err = fmt.Errorf("intent %s is not produced by pattern matching", intent)
	}
	if err != nil {
		return semantic.Invalid{Reason: fmt.Errorf("%s: %w", err.Error(), mqerrors.ErrUnmappedIntent)}
	}
	return rec
}
