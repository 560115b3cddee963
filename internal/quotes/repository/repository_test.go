package repository

import (
	"strings"
	"testing"
)

func requireFragments(t *testing.T, query string, fragments []string) {
	t.Helper()
	query = strings.ToLower(query)
	for _, fragment := range fragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected query fragment %q to be present", fragment)
		}
	}
}

func TestFindDuplicateQueryComparesEveryBusinessField(t *testing.T) {
	requireFragments(t, findDuplicateQuery, []string{
		"from quotes",
		"client_name = $1",
		"site_name = $2",
		"object = $3",
		"date = $4",
		"supply_description = $5",
		"labor_description = $6",
		"supply_exchange_rate = $7",
		"supply_margin_rate = $8",
		"labor_exchange_rate = $9",
		"labor_margin_rate = $10",
		"total_supplies_ht = $11",
		"total_labor_ht = $12",
		"total_ht = $13",
		"tva = $14",
		"total_ttc = $15",
		"parent_id is not distinct from $16",
		"limit 1",
	})
}

func TestFindDuplicateQueryIgnoresMutableColumns(t *testing.T) {
	query := strings.ToLower(findDuplicateQuery)
	for _, column := range []string{"remise", "split_id", "confirmed", "number_chanitec", "reminder_date"} {
		if strings.Contains(query, column) {
			t.Fatalf("duplicate lookup should not compare %s", column)
		}
	}
	if strings.Contains(query, "parent_id = $") {
		t.Fatal("parent_id must be compared null-safely")
	}
}

func TestUpdateHeaderQueryKeepsUnsetColumns(t *testing.T) {
	requireFragments(t, updateHeaderQuery, []string{
		"update quotes set",
		"remise = coalesce($17, remise)",
		"parent_id = coalesce($18, parent_id)",
		"split_id = coalesce($19, split_id)",
		"updated_at = now()",
		"where id = $1",
	})

	query := strings.ToLower(updateHeaderQuery)
	for _, column := range []string{"confirmed", "number_chanitec", "reminder_date", "created_at"} {
		if strings.Contains(query, column) {
			t.Fatalf("header update should not touch %s", column)
		}
	}
}

func TestChildListQueriesOrderBySequence(t *testing.T) {
	cases := map[string]string{
		"supply": listSupplyItemsQuery,
		"labor":  listLaborItemsQuery,
	}
	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			requireFragments(t, query, []string{"where quote_id = $1", "order by seq"})
			if strings.Contains(strings.ToLower(query), "order by created_at") {
				t.Fatal("lines written in one transaction share created_at")
			}
		})
	}
}

func TestChildInsertsLeaveSequenceToDatabase(t *testing.T) {
	for _, query := range []string{insertSupplyItemQuery, insertLaborItemQuery} {
		if strings.Contains(strings.ToLower(query), "seq") {
			t.Fatalf("seq is generated by the database, got insert %s", query)
		}
	}
	requireFragments(t, supplyItemColumns, []string{"seq, created_at"})
	requireFragments(t, laborItemColumns, []string{"seq, created_at"})
}

func TestListQuotesQueryOrdersNewestFirst(t *testing.T) {
	requireFragments(t, listQuotesQuery, []string{"from quotes", "order by date desc, created_at desc"})
}
