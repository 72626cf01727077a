package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var initForce bool

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize (or reset) the local database",
	Long: `Create the local SQLite database and its schema.

If the database already contains data, init drops and recreates every
table. This destroys all synced transactions, so a confirmation prompt
is shown unless --force is given.

Example:
  starling-sync init
  starling-sync init --force`,
	Run: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "skip the confirmation prompt")
}

func runInit(cmd *cobra.Command, args []string) {
	cfg := loadConfig("ledger.dbPath")

	if !initForce && !confirm(fmt.Sprintf(
		"This will delete all existing data in %s. Continue?", cfg.Ledger.DBPath)) {
		fmt.Println("Aborted")
		return
	}

	st := openStore(cfg)
	defer st.Close()

	exitOnError(st.Reset(), "failed to reset database")

	fmt.Printf("Database initialized at %s\n", cfg.Ledger.DBPath)
}

// confirm asks a yes/no question on stdin. Anything but y/yes is a no.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)

	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
