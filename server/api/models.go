package api

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type InfoModel struct {
	Version struct {
		Server string `json:"server"`
		MenuQ  string `json:"menuq"`
	} `json:"version"`
	Strategy     string `json:"default_strategy"`
	LiveSessions int    `json:"live_sessions"`
}

type SessionRequest struct {
	Strategy string `json:"strategy,omitempty"`
}

type SessionModel struct {
	URI        string `json:"uri"`
	ID         string `json:"id"`
	Strategy   string `json:"strategy"`
	Created    string `json:"created"`
	LastActive string `json:"last_active"`
	Token      string `json:"token,omitempty"`
}

type UtteranceRequest struct {
	Text string `json:"text"`
}

type UtteranceModel struct {
	ID          string           `json:"id,omitempty"`
	Input       string           `json:"input"`
	Structure   string           `json:"structure"`
	Semantics   string           `json:"semantics"`
	DBOperation string           `json:"db_operation"`
	LogicalForm string           `json:"logical_form"`
	Answer      string           `json:"answer"`
	Answers     []string         `json:"answers,omitempty"`
	Cart        []OrderLineModel `json:"cart,omitempty"`
	Created     string           `json:"created,omitempty"`
}

type OrderLineModel struct {
	Item       string   `json:"item"`
	Quantity   int      `json:"quantity"`
	Attributes []string `json:"attributes,omitempty"`
	Time       string   `json:"time,omitempty"`
	Price      int      `json:"price"`
	Subtotal   int      `json:"subtotal"`
}

type OrderModel struct {
	Lines        []OrderLineModel `json:"lines"`
	Total        int              `json:"total"`
	TotalDisplay string           `json:"total_display"`
}

type MenuItemModel struct {
	Name         string   `json:"name"`
	Price        int      `json:"price"`
	PriceDisplay string   `json:"price_display"`
	Options      []string `json:"options,omitempty"`
}
