package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-verisure/pkg/api"
)

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report blockchain connectivity and the issued certificate count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			var (
				status api.Status
				list   api.CertificateList
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				status, err = client.BlockchainStatus(ctx)
				return err
			})
			g.Go(func() error {
				var err error
				list, err = client.Certificates(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("status: %s", api.Describe(err))
			}
			return writeStatus(cmd.OutOrStdout(), status, list)
		},
	}
}

func writeStatus(w io.Writer, status api.Status, list api.CertificateList) error {
	r := lipgloss.NewRenderer(w)
	label := r.NewStyle().Bold(true)
	state := r.NewStyle().Foreground(lipgloss.Color("1")).Render("disconnected")
	if status.Connected {
		state = r.NewStyle().Foreground(lipgloss.Color("2")).Render("connected")
	}

	fmt.Fprintf(w, "%s %s\n", label.Render("Blockchain:"), state)
	if status.Connected {
		fmt.Fprintf(w, "%s %d\n", label.Render("Latest block:"), status.LatestBlock)
	}
	if status.Error != "" {
		fmt.Fprintf(w, "%s %s\n", label.Render("Error:"), status.Error)
	}
	if list.Success {
		fmt.Fprintf(w, "%s %d\n", label.Render("Certificates:"), len(list.Certificates))
	} else if list.Error != "" {
		fmt.Fprintf(w, "%s %s\n", label.Render("Certificates:"), list.Error)
	}
	return nil
}

func newCertificatesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "certificates",
		Short: "List the certificates recorded on chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			list, err := client.Certificates(cmd.Context())
			if err != nil {
				return fmt.Errorf("certificates: %s", api.Describe(err))
			}
			if !list.Success {
				msg := list.Error
				if msg == "" {
					msg = "request failed"
				}
				return fmt.Errorf("certificates: %s", msg)
			}
			return writeCertificates(cmd.OutOrStdout(), list.Certificates)
		},
	}
}

func writeCertificates(w io.Writer, certs []api.Certificate) error {
	if len(certs) == 0 {
		_, err := fmt.Fprintln(w, "No certificates issued.")
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Certificate ID", "UID", "Candidate", "Course", "Organization", "IPFS")
	for _, c := range certs {
		t.Row(c.ID, c.UID, c.CandidateName, c.CourseName, c.OrgName, c.IPFSHash)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
