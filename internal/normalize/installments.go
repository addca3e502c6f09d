package normalize

import (
	"fmt"
	"strconv"

	"github.com/corredora-austral/policy-cli/internal/model"
)

// maxInstallmentRows bounds the indexed-row scan. The providers' tables top
// out at monthly installments over one year.
const maxInstallmentRows = 12

// collapseInstallments folds indexed installment rows
// (dueKeyFmt/amountKeyFmt with a 1-based index, e.g.
// "pago.vencimiento_cuota[%d]") into the canonical 0-indexed installment
// keys plus the installment count. A row counts when either its due date or
// its amount is present. Existing canonical keys are kept (first-write-wins)
// so the pass is idempotent.
func collapseInstallments(bag model.FieldBag, dueKeyFmt, amountKeyFmt string) {
	count := 0
	for i := 1; i <= maxInstallmentRows; i++ {
		due := bag.Get(fmt.Sprintf(dueKeyFmt, i))
		amount := bag.Get(fmt.Sprintf(amountKeyFmt, i))
		if due == "" && amount == "" {
			continue
		}

		idx := count
		count++
		if due != "" && !bag.Has(model.InstallmentKey(idx, "vencimiento")) {
			bag[model.InstallmentKey(idx, "vencimiento")] = due
		}
		if amount != "" && !bag.Has(model.InstallmentKey(idx, "importe")) {
			bag[model.InstallmentKey(idx, "importe")] = amount
		}
	}

	if count > 0 && !bag.Has(model.KeyInstallments) {
		bag[model.KeyInstallments] = strconv.Itoa(count)
	}
}
