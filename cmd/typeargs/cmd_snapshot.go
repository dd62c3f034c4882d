package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// snapshotCmd manages stored snapshots
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save, list and delete class table snapshots",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Store the selected class source as a new snapshot",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotSave,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotDelete,
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	src, err := loadClasses(ctx)
	if err != nil {
		return err
	}
	label, _ := cmd.Flags().GetString("label")
	if label == "" {
		label = src.desc
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Save(ctx, src.table, label)
	if err != nil {
		return err
	}
	p := newPrinter(cmd.OutOrStdout())
	p.println(id.String())
	return nil
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	snaps, err := st.List(ctx)
	if err != nil {
		return err
	}
	p := newPrinter(cmd.OutOrStdout())
	for _, s := range snaps {
		p.printf("%s  %s  %3d classes  %s\n",
			p.paint(ansiCyan, s.ID.String()),
			s.CreatedAt.Local().Format(time.DateTime),
			s.Classes,
			s.Label)
	}
	return nil
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
	}
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Delete(ctx, id)
}
