package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"skywings-cli/booking"
	"skywings-cli/format"
	"skywings-cli/model"
	"skywings-cli/service"
)

func newBookingCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "booking",
		Aliases: []string{"bookings"},
		Short:   "Look up, list and cancel bookings",
	}
	cmd.AddCommand(newBookingShowCmd(a), newBookingListCmd(a), newBookingCancelCmd(a))
	return cmd
}

func newBookingShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show PNR",
		Short: "Show a booking by its PNR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.client.GetBookingByPNR(cmd.Context(), args[0])
			if err != nil {
				if service.IsNotFound(err) {
					return errors.New("Booking not found. Please check your PNR number.")
				}
				return errors.New(service.Detail(err, "Failed to find booking"))
			}
			renderBooking(cmd.OutOrStdout(), b)
			return nil
		},
	}
}

func newBookingListCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookings for an email, or for the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				bookings []model.Booking
				err      error
			)
			if strings.TrimSpace(email) != "" {
				bookings, err = a.client.GetBookingsByEmail(cmd.Context(), email)
			} else {
				bookings, err = a.client.GetUserBookings(cmd.Context())
			}
			if err != nil {
				if service.IsUnauthorized(err) {
					return errors.New("please sign in with `skywings login` or pass --email")
				}
				return errors.New(service.Detail(err, "Failed to load bookings"))
			}
			booking.SortRecent(bookings)
			renderBookings(cmd.OutOrStdout(), bookings)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "passenger email to look up")
	return cmd
}

func newBookingCancelCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "cancel PNR",
		Short: "Cancel a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pnr := service.NormalizePNR(args[0])
			if !yes {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Cancel booking %s? This cannot be undone", pnr),
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Booking kept.")
					return nil
				}
			}
			msg, err := a.client.CancelBooking(cmd.Context(), pnr)
			if err != nil {
				return errors.New(service.Detail(err, "Failed to cancel booking"))
			}
			a.logger.Info("booking cancelled", "pnr", pnr)
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func renderBooking(w io.Writer, b model.Booking) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Booking " + b.PNR)
	t.AppendRows([]table.Row{
		{"Status", format.Status(string(b.EffectiveStatus()))},
		{"Passenger", b.PassengerName},
		{"Email", b.PassengerEmail},
		{"Flight", b.FlightNumber},
		{"Route", fmt.Sprintf("%s → %s", b.Origin, b.Destination)},
		{"Departs", formatTimestamp(b.DepartureTime)},
		{"Seat", strings.TrimSpace(b.SeatNumber + " " + b.SeatClass)},
		{"Booked", formatTimestamp(b.BookedAt())},
		{"Total", format.Money(b.TotalPrice)},
	})
	t.Render()
}

func renderBookings(w io.Writer, bookings []model.Booking) {
	if len(bookings) == 0 {
		fmt.Fprintln(w, "No bookings found.")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"PNR", "Status", "Flight", "Route", "Departs", "Seat", "Total"})
	for _, b := range bookings {
		t.AppendRow(table.Row{
			b.PNR,
			format.Status(string(b.EffectiveStatus())),
			b.FlightNumber,
			fmt.Sprintf("%s → %s", b.Origin, b.Destination),
			formatTimestamp(b.DepartureTime),
			b.SeatNumber,
			format.Money(b.TotalPrice),
		})
	}
	s := booking.Summarize(bookings)
	t.AppendFooter(table.Row{"", "", "", "", "", "Spent", format.Money(s.Spent)})
	t.Render()
}

func formatTimestamp(ts model.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return format.DateTime(ts.Time)
}
