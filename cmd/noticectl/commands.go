package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/return_notice/internal/config"
	"github.com/dgnsrekt/return_notice/internal/controller"
	"github.com/dgnsrekt/return_notice/internal/query"
)

func newService() (*controller.Service, error) {
	profile, err := config.LoadProfileFromEnv()
	if err != nil {
		return nil, err
	}
	return controller.NewService("", profile, nil), nil
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [url]",
		Short: "Show the payment summary detected in a return URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			res, err := svc.Inspect(context.Background(), query.SplitHref(args[0]).RawQuery)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}

func sanitizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize [url]",
		Short: "Print the URL with payment parameters removed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			res, err := svc.Sanitize(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.URL)
			return nil
		},
	}
}

func previewCmd() *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "preview [url]",
		Short: "Render the confirmation dialog HTML for a return URL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			var q string
			if len(args) == 1 {
				q = query.SplitHref(args[0]).RawQuery
			}
			p, err := svc.Preview(context.Background(), q, message)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.HTML)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Literal message instead of one built from the URL")

	return cmd
}

func renderCmd() *cobra.Command {
	var href string
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Run the return notifier over a local HTML page as if loaded from --url",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			page, err := svc.Render(f, href)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(page.HTML)
			return err
		},
	}

	cmd.Flags().StringVar(&href, "url", "http://localhost/", "Address the page is treated as loaded from")

	return cmd
}
