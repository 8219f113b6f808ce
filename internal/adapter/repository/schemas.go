package repository

import "github.com/eslsoft/vocdrill/pkg/filterexpr"

const wordCountExpr = "(SELECT COUNT(*) FROM word_set_words w WHERE w.word_set_id = ws.id)"

var listWordSetsSchema = filterexpr.Schema{
	Fields: map[string]filterexpr.Field{
		"id": {
			Column: "ws.id",
			Kind:   filterexpr.KindString,
			Ops:    []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpIN},
		},
		"name": {
			Column: "ws.name",
			Kind:   filterexpr.KindString,
			Ops:    []filterexpr.Op{filterexpr.OpEQ, filterexpr.OpSW, filterexpr.OpIN},
		},
		"created_at": {
			Column: "ws.created_at",
			Kind:   filterexpr.KindTimestamp,
			Ops:    []filterexpr.Op{filterexpr.OpGTE, filterexpr.OpLTE},
		},
		"updated_at": {
			Column: "ws.updated_at",
			Kind:   filterexpr.KindTimestamp,
			Ops:    []filterexpr.Op{filterexpr.OpGTE, filterexpr.OpLTE},
		},
		"size": {
			Column: wordCountExpr,
			Kind:   filterexpr.KindNumber,
			Ops:    []filterexpr.Op{filterexpr.OpGTE, filterexpr.OpLTE},
		},
	},
	Order: filterexpr.OrderSchema{
		Columns: map[string]string{
			"id":         "ws.id",
			"name":       "ws.name",
			"created_at": "ws.created_at",
			"updated_at": "ws.updated_at",
		},
		Default:  []filterexpr.OrderTerm{{Key: "updated_at", Desc: true}},
		Tiebreak: filterexpr.OrderTerm{Key: "id"},
	},
}
