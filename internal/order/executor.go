package order

import (
	"fmt"
	"strings"

	"github.com/HienLe2004/menuq/internal/logic"
	"github.com/HienLe2004/menuq/internal/menu"
	"github.com/HienLe2004/menuq/internal/mqerrors"
	"github.com/HienLe2004/menuq/internal/util"
)

// Answer texts that do not depend on the call.
const (
	AnswerEmptyCart     = "Bạn chưa đặt món nào."
	AnswerCleared       = "Đã hủy toàn bộ đơn hàng."
	AnswerNotUnderstood = "Câu lệnh không hợp lệ."
	AnswerNoItemForTime = "Không có món nào để đặt thời gian giao."
)

// Executor runs procedure calls against a menu and a cart and describes the
// outcome of each in Vietnamese.
type Executor struct {
	Menu *menu.Menu
	Cart *Cart
}

// Execute performs calls in order and returns exactly one answer per call.
// Calls that fail, such as adding an item that is not on the menu, leave the
// cart unchanged and are answered with an explanation; Execute itself never
// fails.
func (ex Executor) Execute(calls []logic.Call) []string {
	answers := make([]string, 0, len(calls))

	// a set_delivery_time following a failed add must not land on whatever
	// item happened to be added before
	addFailed := false

	for _, c := range calls {
		var ans string
		switch c.Proc {
		case logic.AddToCart:
			var ok bool
			ans, ok = ex.addToCart(c.Item, c.Quantity, c.Attributes, c.Time)
			addFailed = !ok
		case logic.SetDeliveryTime:
			if addFailed {
				ans = AnswerNoItemForTime
			} else {
				ans = ex.setDeliveryTime(c.Time)
			}
		case logic.RemoveFromCart:
			ans = ex.removeFromCart(c.Item)
		case logic.SetItemQuantity:
			ans = ex.setItemQuantity(c.Item, c.Quantity)
		case logic.ClearCart:
			ex.Cart.Clear()
			ans = AnswerCleared
		case logic.ListMenu:
			ans = ex.listMenu()
		case logic.ShowCart:
			ans = ex.showCart()
		case logic.ComputeTotal:
			ans = ex.computeTotal()
		case logic.QueryPrice:
			ans = ex.queryPrice(c.Item)
		case logic.QueryAvailability:
			ans = ex.queryAvailability(c.Item)
		default:
			ans = AnswerNotUnderstood
			if c.Reason != nil {
				ans = mqerrors.HumanMessage(c.Reason)
			}
		}
		answers = append(answers, ans)
	}

	return answers
}

func (ex Executor) addToCart(item string, qty int, attrs []string, time string) (string, bool) {
	it, ok := ex.Menu.Lookup(item)
	if !ok {
		return ex.unknownItem(item), false
	}

	ex.Cart.Add(it.Name, qty, attrs, time, it.Price)
	return fmt.Sprintf("Đã thêm %d x %s (%sđ) vào đơn hàng.", qty, it.Name, menu.FormatPrice(it.Price)), true
}

func (ex Executor) unknownItem(item string) string {
	if item == "" {
		return "Xin lỗi, bạn muốn gọi món nào?"
	}

	ans := fmt.Sprintf("Xin lỗi, quán không có món %s.", item)
	if suggestion, ok := ex.Menu.Closest(item); ok {
		ans += fmt.Sprintf(" Có phải bạn muốn %s?", suggestion)
	}
	return ans
}

func (ex Executor) setDeliveryTime(time string) string {
	item, ok := ex.Cart.SetTime(time)
	if !ok {
		return AnswerNoItemForTime
	}
	return fmt.Sprintf("Sẽ giao %s lúc %s.", item, bareTime(time))
}

var timePrefixes = []string{"giao lúc ", "vào lúc ", "lúc ", "vào ", "giao "}

// bareTime strips a leading time preposition, so that "lúc 7 giờ tối" and
// "7 giờ tối" read the same in answers.
func bareTime(time string) string {
	for _, p := range timePrefixes {
		if strings.HasPrefix(time, p) {
			return strings.TrimPrefix(time, p)
		}
	}
	return time
}

func (ex Executor) removeFromCart(item string) string {
	if ex.Cart.Remove(item) {
		return fmt.Sprintf("Đã xóa %s khỏi đơn hàng.", item)
	}
	return fmt.Sprintf("Không có %s trong đơn hàng để xóa.", item)
}

func (ex Executor) setItemQuantity(item string, qty int) string {
	if _, inCart := ex.Cart.Get(item); !inCart {
		if qty <= 0 {
			return fmt.Sprintf("Không có %s trong đơn hàng.", item)
		}
		ans, _ := ex.addToCart(item, qty, nil, "")
		return ans
	}

	ex.Cart.SetQuantity(item, qty)
	if qty <= 0 {
		return fmt.Sprintf("Đã xóa %s khỏi đơn hàng.", item)
	}
	return fmt.Sprintf("Đã cập nhật %s thành %d phần.", item, qty)
}

func (ex Executor) listMenu() string {
	items := ex.Menu.Items()
	if len(items) == 0 {
		return "Menu hiện chưa có món nào."
	}

	entries := make([]string, len(items))
	for i, it := range items {
		entries[i] = fmt.Sprintf("%s (%sđ)", it.Name, menu.FormatPrice(it.Price))
	}
	return "Menu có: " + strings.Join(entries, ", ") + "."
}

func (ex Executor) showCart() string {
	lines := ex.Cart.Lines()
	if len(lines) == 0 {
		return AnswerEmptyCart
	}

	var sb strings.Builder
	sb.WriteString("Đơn hàng của bạn:")

	allTimed := true
	var times []string
	for _, ln := range lines {
		sb.WriteString(fmt.Sprintf("\n• %d %s", ln.Quantity, ln.Item))
		if len(ln.Attributes) > 0 {
			sb.WriteString(" (" + strings.Join(ln.Attributes, ", ") + ")")
		}
		if ln.Time != "" {
			sb.WriteString(" – Giao lúc " + bareTime(ln.Time))
		} else {
			allTimed = false
		}
		sb.WriteString(fmt.Sprintf(" → %sđ", menu.FormatPrice(ln.Subtotal())))
		times = append(times, bareTime(ln.Time))
	}

	sb.WriteString(fmt.Sprintf("\n\nTổng tiền: %s VND", menu.FormatPrice(ex.Cart.Total())))
	if allTimed {
		sb.WriteString("\nThời gian giao hàng: " + util.MakeTextList(util.Distinct(times)))
	}

	return sb.String()
}

func (ex Executor) computeTotal() string {
	if ex.Cart.Len() == 0 {
		return AnswerEmptyCart
	}
	return fmt.Sprintf("Tổng tiền: %s VND.", menu.FormatPrice(ex.Cart.Total()))
}

func (ex Executor) queryPrice(item string) string {
	it, ok := ex.Menu.Lookup(item)
	if !ok {
		return fmt.Sprintf("Không có món %s trong menu.", item)
	}
	return fmt.Sprintf("%s giá %s VND.", util.Capitalize(it.Name), menu.FormatPrice(it.Price))
}

func (ex Executor) queryAvailability(item string) string {
	it, ok := ex.Menu.Lookup(item)
	if !ok {
		return fmt.Sprintf("Không có món %s.", item)
	}
	return fmt.Sprintf("Có món %s.", it.Name)
}
