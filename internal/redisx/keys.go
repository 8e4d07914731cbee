package redisx

import "rjcreations/internal/domain"

const (
	// checkout intent memo: checkout:intent:{session_id} -> {"fingerprint": "...", "intent": {...}}
	KeyCheckoutIntent = "checkout:intent:%s"
)

var TTLCheckoutIntent = domain.IntentTTL
