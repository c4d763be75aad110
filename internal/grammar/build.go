package grammar

import (
	"fmt"
	"strings"

	"github.com/HienLe2004/menuq/internal/menu"
	"github.com/HienLe2004/menuq/internal/mqerrors"
)

// Category labels of the ordering grammar. Parse tree nodes carry these as
// their values and the semantic extractor switches on them.
const (
	Start          = "S"
	Command        = "CMD"
	Query          = "QRY"
	VPOrder        = "VP_ORDER"
	VOrderAction   = "V_ORDER_ACTION"
	VPAdd          = "VP_ADD"
	VAddAction     = "V_ADD_ACTION"
	VPRemove       = "VP_REMOVE"
	VRemoveAction  = "V_REMOVE_ACTION"
	QAvail         = "Q_AVAIL"
	QPrice         = "Q_PRICE"
	QMenu          = "Q_MENU"
	QStatus        = "Q_STATUS"
	NP             = "NP"
	NPQuantified   = "NP_QUANTIFIED"
	Quantity       = "QUANTITY"
	TimeClause     = "TIME_CLAUSE"
	Time           = "TIME"
	OptPolite      = "OPT_POLITE"
	PolitePrefix   = "POLITE_PREFIX"
	OptSuffix      = "OPT_SUFFIX"
	Suffix         = "SUFFIX"
	QPrefix        = "Q_PREFIX"
	QPriceSuffix   = "Q_PRICE_SUFFIX"
	QAvailSuffix   = "Q_AVAIL_SUFFIX"
	QAvailInfix    = "Q_AVAIL_INFIX"
	ItemPrefix     = "ITEM_PREFIX"
	TimeSuffixHour = "TIME_SUFFIX_0"
	TimeSuffixPart = "TIME_SUFFIX_1"
	TimePrefix     = "TIME_PREFIX"
	Food           = "FOOD"
	Number         = "NUMBER"
	Unit           = "UNIT"
	Attribute      = "ATTRIBUTE"
)

// structuralRules is the fixed part of the ordering grammar. The lexical
// rules FOOD, NUMBER, UNIT, and ATTRIBUTE are generated from the catalog.
const structuralRules = `
S -> CMD | QRY
CMD -> VP_ORDER | VP_ADD | VP_REMOVE
VP_ORDER -> OPT_POLITE V_ORDER_ACTION NP_QUANTIFIED TIME_CLAUSE | OPT_POLITE V_ORDER_ACTION NP_QUANTIFIED
V_ORDER_ACTION -> "đặt" | "lấy" | "cho"
VP_ADD -> V_ADD_ACTION NP_QUANTIFIED TIME_CLAUSE OPT_SUFFIX | V_ADD_ACTION NP_QUANTIFIED OPT_SUFFIX
V_ADD_ACTION -> "thêm" | "cho thêm" | "thêm vào"
VP_REMOVE -> OPT_POLITE V_REMOVE_ACTION NP OPT_SUFFIX
V_REMOVE_ACTION -> "hủy" | "bỏ" | "xóa"
QRY -> Q_AVAIL | Q_PRICE | Q_MENU | Q_STATUS
Q_AVAIL -> Q_PREFIX Q_AVAIL_INFIX NP Q_AVAIL_SUFFIX | Q_AVAIL_INFIX NP Q_AVAIL_SUFFIX
Q_PRICE -> NP Q_PRICE_SUFFIX
Q_MENU -> "menu có gì" | "có những món nào" | "có những món nào trong menu"
Q_STATUS -> "tôi đã đặt những món gì" | "đơn hàng của tôi có gì"
NP -> ITEM_PREFIX FOOD | FOOD
NP_QUANTIFIED -> QUANTITY UNIT FOOD ATTRIBUTE | QUANTITY FOOD ATTRIBUTE | QUANTITY UNIT FOOD | QUANTITY FOOD
QUANTITY -> NUMBER
TIME_CLAUSE -> TIME_PREFIX TIME | TIME
TIME -> NUMBER TIME_SUFFIX_0 | NUMBER TIME_SUFFIX_0 TIME_SUFFIX_1
OPT_POLITE -> POLITE_PREFIX | ε
POLITE_PREFIX -> "tôi muốn" | "cho tôi" | "làm ơn cho tôi" | "làm ơn cho"
OPT_SUFFIX -> SUFFIX | ε
SUFFIX -> "vào đơn" | "vào đơn nhé" | "trong đơn hàng" | "giúp tôi"
Q_PREFIX -> "quán" | "nhà hàng" | "ở đây"
Q_PRICE_SUFFIX -> "giá bao nhiêu" | "bao nhiêu tiền"
Q_AVAIL_SUFFIX -> "không"
Q_AVAIL_INFIX -> "có"
ITEM_PREFIX -> "món"
TIME_SUFFIX_0 -> "giờ"
TIME_SUFFIX_1 -> "sáng" | "trưa" | "chiều" | "tối"
TIME_PREFIX -> "giao lúc" | "vào lúc" | "vào" | "lúc" | "giao"
`

// Build creates the ordering grammar for the given menu. The same menu always
// produces the same grammar. An empty menu is not an error; the FOOD rule is
// then declared with no productions and nothing that names food will parse.
//
// If the catalog words collide with each other or with the fixed vocabulary,
// for instance an option that is also a unit word, a *mqerrors.ConfigError is
// returned.
func Build(m *menu.Menu) (Grammar, error) {
	g := MustParse(structuralRules)

	g.AddLexicalRule(Food, m.Names())
	g.AddLexicalRule(Number, m.Numbers())
	g.AddLexicalRule(Unit, m.Units())
	g.AddLexicalRule(Attribute, m.Options())

	if err := g.Validate(); err != nil {
		return Grammar{}, &mqerrors.ConfigError{
			Source:   "grammar",
			Problems: strings.Split(err.Error(), "\n"),
		}
	}

	return g, nil
}

// MustBuild is Build but it panics if there is an error.
func MustBuild(m *menu.Menu) Grammar {
	g, err := Build(m)
	if err != nil {
		panic(fmt.Sprintf("build grammar: %s", err.Error()))
	}
	return g
}
