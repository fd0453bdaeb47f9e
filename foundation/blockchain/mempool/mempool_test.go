package mempool_test

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"testing"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/mempool"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func id(i int) txid.TxID {
	return txid.TxID(sha256.Sum256([]byte(fmt.Sprintf("tx-%d", i))))
}

func TestLoad(t *testing.T) {
	t.Log("Given the need to load the mempool table from CSV.")
	{
		t.Log("\tWhen handling a well formed table.")
		{
			input := fmt.Sprintf("%s,100,400\n%s,250,800,%s\n%s,50,200,%s;%s\n",
				id(1), id(2), id(1), id(3), id(1), id(2))

			mp, err := mempool.Load(strings.NewReader(input))
			if err != nil {
				t.Fatalf("\t%s\tShould be able to load the table: %v", failed, err)
			}
			t.Logf("\t%s\tShould be able to load the table.", success)

			if mp.Count() != 3 {
				t.Fatalf("\t%s\tShould have 3 transactions: got %d", failed, mp.Count())
			}
			t.Logf("\t%s\tShould have 3 transactions.", success)

			tx, exists := mp.Lookup(id(3))
			if !exists {
				t.Fatalf("\t%s\tShould find the third transaction.", failed)
			}
			t.Logf("\t%s\tShould find the third transaction.", success)

			if tx.Fee != 50 || tx.Weight != 200 || len(tx.Parents) != 2 {
				t.Fatalf("\t%s\tShould carry fee, weight and parents: %+v", failed, tx)
			}
			t.Logf("\t%s\tShould carry fee, weight and parents.", success)
		}

		t.Log("\tWhen handling malformed tables.")
		{
			bad := []string{
				"",
				"nothex,100,400\n",
				fmt.Sprintf("%s,abc,400\n", id(1)),
				fmt.Sprintf("%s,100,abc\n", id(1)),
				fmt.Sprintf("%s,100\n", id(1)),
				fmt.Sprintf("%s,100,400,nothex\n", id(1)),
			}

			for i, input := range bad {
				if _, err := mempool.Load(strings.NewReader(input)); err == nil {
					t.Fatalf("\t%s\tTest %d:\tShould reject the malformed table.", failed, i)
				}
				t.Logf("\t%s\tTest %d:\tShould reject the malformed table.", success, i)
			}
		}
	}
}

func TestCheckCandidate(t *testing.T) {
	input := fmt.Sprintf("%s,100,1000\n%s,250,2000,%s\n%s,50,500\n%s,75,1500,%s;%s\n",
		id(1), id(2), id(1), id(3), id(4), id(2), id(3))

	mp, err := mempool.Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("\t%s\tShould be able to load the table: %v", failed, err)
	}

	t.Log("Given the need to validate candidate transaction lists.")
	{
		t.Log("\tWhen handling a valid candidate.")
		{
			list := []txid.TxID{id(1), id(2), id(3), id(4)}

			report, err := mp.CheckCandidate(list, mempool.Rules{})
			if err != nil {
				t.Fatalf("\t%s\tShould accept the candidate: %v", failed, err)
			}
			t.Logf("\t%s\tShould accept the candidate.", success)

			if report.TxCount != 4 || report.TotalWeight != 5000 {
				t.Fatalf("\t%s\tShould report count and weight: %+v", failed, report)
			}
			t.Logf("\t%s\tShould report count and weight.", success)
		}

		t.Log("\tWhen the candidate is empty.")
		{
			if _, err := mp.CheckCandidate(nil, mempool.Rules{}); err != mempool.ErrEmptyCandidate {
				t.Fatalf("\t%s\tShould reject an empty candidate: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject an empty candidate.", success)
		}

		t.Log("\tWhen an identifier appears twice.")
		{
			_, err := mp.CheckCandidate([]txid.TxID{id(1), id(1)}, mempool.Rules{})

			de, ok := err.(*mempool.DuplicateError)
			if !ok {
				t.Fatalf("\t%s\tShould reject the duplicate: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject the duplicate.", success)

			if !de.ID.Equals(id(1)) {
				t.Fatalf("\t%s\tShould name the duplicated identifier.", failed)
			}
			t.Logf("\t%s\tShould name the duplicated identifier.", success)
		}

		t.Log("\tWhen an identifier is not in the table.")
		{
			_, err := mp.CheckCandidate([]txid.TxID{id(1), id(9)}, mempool.Rules{})

			ue, ok := err.(*mempool.UnknownTxError)
			if !ok {
				t.Fatalf("\t%s\tShould reject the unknown identifier: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject the unknown identifier.", success)

			if ue.Position != 1 {
				t.Fatalf("\t%s\tShould name the position: exp[1] got[%d]", failed, ue.Position)
			}
			t.Logf("\t%s\tShould name the position.", success)
		}

		t.Log("\tWhen the candidate is over the weight limit.")
		{
			list := []txid.TxID{id(1), id(2), id(3), id(4)}

			_, err := mp.CheckCandidate(list, mempool.Rules{WeightLimit: 4999})

			we, ok := err.(*mempool.WeightError)
			if !ok {
				t.Fatalf("\t%s\tShould reject the overweight candidate: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject the overweight candidate.", success)

			if we.TotalWeight != 5000 || we.Limit != 4999 {
				t.Fatalf("\t%s\tShould report weight and limit: %+v", failed, we)
			}
			t.Logf("\t%s\tShould report weight and limit.", success)
		}

		t.Log("\tWhen a parent is missing from the candidate.")
		{
			_, err := mp.CheckCandidate([]txid.TxID{id(2)}, mempool.Rules{})

			oe, ok := err.(*mempool.OrderError)
			if !ok {
				t.Fatalf("\t%s\tShould reject the missing parent: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject the missing parent.", success)

			if oe.ParentPosition != -1 {
				t.Fatalf("\t%s\tShould mark the parent as not included: got %d", failed, oe.ParentPosition)
			}
			t.Logf("\t%s\tShould mark the parent as not included.", success)
		}

		t.Log("\tWhen a parent comes after its child.")
		{
			_, err := mp.CheckCandidate([]txid.TxID{id(2), id(1)}, mempool.Rules{})

			oe, ok := err.(*mempool.OrderError)
			if !ok {
				t.Fatalf("\t%s\tShould reject the misordered candidate: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject the misordered candidate.", success)

			if oe.ParentPosition != 1 || oe.ChildPosition != 0 {
				t.Fatalf("\t%s\tShould report both positions: %+v", failed, oe)
			}
			t.Logf("\t%s\tShould report both positions.", success)
		}

		t.Log("\tWhen a required identifier is configured.")
		{
			required := id(4)

			if _, err := mp.CheckCandidate([]txid.TxID{id(1), id(3)}, mempool.Rules{RequiredTx: &required}); err == nil {
				t.Fatalf("\t%s\tShould reject a candidate missing the required identifier.", failed)
			} else if _, ok := err.(*mempool.MissingRequiredError); !ok {
				t.Fatalf("\t%s\tShould reject with the required identifier error: %v", failed, err)
			}
			t.Logf("\t%s\tShould reject a candidate missing the required identifier.", success)

			list := []txid.TxID{id(1), id(2), id(3), id(4)}
			if _, err := mp.CheckCandidate(list, mempool.Rules{RequiredTx: &required}); err != nil {
				t.Fatalf("\t%s\tShould accept a candidate carrying it: %v", failed, err)
			}
			t.Logf("\t%s\tShould accept a candidate carrying it.", success)
		}
	}
}
