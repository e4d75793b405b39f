package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/ledgerbook-api/internal/application/inventory"
	"github.com/jhoicas/ledgerbook-api/internal/application/ledger"
	"github.com/jhoicas/ledgerbook-api/internal/application/voucher"
	"github.com/jhoicas/ledgerbook-api/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones pendientes",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context(), "migrate")
		if err != nil {
			return err
		}
		defer e.pool.Close()

		applied, err := postgres.Migrate(cmd.Context(), e.pool)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Println("sin migraciones pendientes")
			return nil
		}
		for _, v := range applied {
			fmt.Println("aplicada", v)
		}
		return nil
	},
}

var nextNumberCmd = &cobra.Command{
	Use:     "next-number",
	Short:   "Muestra el próximo número de comprobante (no lo reserva)",
	Example: `  ledgerctl next-number --company 6f1c... --type sales`,
	RunE: func(cmd *cobra.Command, args []string) error {
		companyID, _ := cmd.Flags().GetString("company")
		typ, _ := cmd.Flags().GetString("type")

		e, err := openEnv(cmd.Context(), "next-number")
		if err != nil {
			return err
		}
		defer e.pool.Close()

		uc := voucher.NewVoucherUseCase(postgres.NewTxRunner(e.pool),
			postgres.NewPartyRepository(e.pool),
			postgres.NewItemRepository(e.pool),
			postgres.NewVoucherRepository(e.pool),
			voucher.Options{Location: e.loc}, e.log)
		out, err := uc.NextNumber(cmd.Context(), companyID, typ)
		if err != nil {
			return err
		}
		return printJSON(out)
	},
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Imprime el libro de un tercero con saldo acumulado",
	RunE: func(cmd *cobra.Command, args []string) error {
		companyID, _ := cmd.Flags().GetString("company")
		partyID, _ := cmd.Flags().GetString("party")

		e, err := openEnv(cmd.Context(), "ledger")
		if err != nil {
			return err
		}
		defer e.pool.Close()

		uc := ledger.NewLedgerUseCase(postgres.NewPartyRepository(e.pool), postgres.NewVoucherRepository(e.pool), e.log)
		out, err := uc.GetLedger(cmd.Context(), companyID, partyID)
		if err != nil {
			return err
		}
		return printJSON(out)
	},
}

var reconcileStockCmd = &cobra.Command{
	Use:   "reconcile-stock",
	Short: "Compara el stock guardado con el que resulta de las líneas contabilizadas",
	Long: `Recalcula el stock de cada artículo como inicial + compras − ventas y lista los
que difieren del valor guardado. Sale con código 1 si hay diferencias.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		companyID, _ := cmd.Flags().GetString("company")

		e, err := openEnv(cmd.Context(), "reconcile-stock")
		if err != nil {
			return err
		}
		defer e.pool.Close()

		uc := inventory.NewItemUseCase(postgres.NewItemRepository(e.pool), postgres.NewVoucherRepository(e.pool), e.log)
		drift, err := uc.Reconcile(cmd.Context(), companyID)
		if err != nil {
			return err
		}
		if err := printJSON(drift); err != nil {
			return err
		}
		if len(drift) > 0 {
			return fmt.Errorf("%d artículos con diferencias de stock", len(drift))
		}
		return nil
	},
}

func init() {
	nextNumberCmd.Flags().String("company", "", "ID de la empresa")
	nextNumberCmd.Flags().String("type", "", "tipo de comprobante: sales|purchase|payment|receipt")
	_ = nextNumberCmd.MarkFlagRequired("company")
	_ = nextNumberCmd.MarkFlagRequired("type")

	ledgerCmd.Flags().String("company", "", "ID de la empresa")
	ledgerCmd.Flags().String("party", "", "ID del tercero")
	_ = ledgerCmd.MarkFlagRequired("company")
	_ = ledgerCmd.MarkFlagRequired("party")

	reconcileStockCmd.Flags().String("company", "", "ID de la empresa")
	_ = reconcileStockCmd.MarkFlagRequired("company")

	rootCmd.AddCommand(migrateCmd, nextNumberCmd, ledgerCmd, reconcileStockCmd)
}
