package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"skywings-cli/format"
	"skywings-cli/model"
	"skywings-cli/search"
	"skywings-cli/service"
	"skywings-cli/store"
)

func newSearchCmd(a *app) *cobra.Command {
	var form search.Form
	var sortBy string
	var maxPrice float64

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search flights between two airports",
		Long: `Search flights for a route and date. Missing route fields are
prompted for interactively.`,
		Example: "  skywings search --from JFK --to LAX --date 2026-11-20 --sort duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := search.ParseSortKey(sortBy)
			if !ok {
				return fmt.Errorf("unknown sort %q: use price, duration or departure", sortBy)
			}
			if form.Origin == "" {
				form.Origin = promptAirport("From", a.cfg.DefaultOrigin)
			}
			if form.Destination == "" {
				form.Destination = promptAirport("To", "")
			}
			if form.Date == "" {
				form.Date = time.Now().AddDate(0, 0, 1).Format(time.DateOnly)
			}
			req, err := form.Request()
			if err != nil {
				return errors.New(service.Detail(err, "invalid search"))
			}

			flights, err := a.client.SearchFlights(cmd.Context(), req)
			if err != nil {
				return errors.New(service.Detail(err, "Failed to search flights. Please try again."))
			}
			if err := store.RememberSearch(store.RecentSearch{
				Origin:      req.Origin,
				Destination: req.Destination,
				Date:        req.DepartureDate,
				Passengers:  form.Passengers,
			}); err != nil {
				a.logger.Warn("remember search", "error", err)
			}

			if maxPrice > 0 {
				flights = search.FilterByPrice(flights, search.PriceRange{Max: maxPrice})
			}
			flights = search.Sort(flights, key)
			renderFlights(cmd.OutOrStdout(), flights)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Origin, "from", "", "origin airport code")
	cmd.Flags().StringVar(&form.Destination, "to", "", "destination airport code")
	cmd.Flags().StringVar(&form.Date, "date", "", "departure date (YYYY-MM-DD), defaults to tomorrow")
	cmd.Flags().IntVar(&form.Passengers, "passengers", 1, "number of passengers")
	cmd.Flags().StringVar(&sortBy, "sort", "price", "sort by price, duration or departure")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "hide flights whose cheapest fare is above this")
	return cmd
}

func promptAirport(label, def string) string {
	prompt := promptui.Prompt{
		Label:   label,
		Default: def,
		Validate: func(input string) error {
			if len(strings.TrimSpace(input)) != 3 {
				return errors.New("use a 3-letter airport code")
			}
			return nil
		},
	}
	value, err := prompt.Run()
	if err != nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(value))
}

func renderFlights(w io.Writer, flights []model.FlightSearchResult) {
	if len(flights) == 0 {
		fmt.Fprintln(w, "No flights found. Try adjusting your search criteria or dates.")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Flight", "Route", "Departs", "Arrives", "Duration", "From", "Class", "Seats"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, AutoMerge: true},
	})
	for _, f := range flights {
		fare, class := f.CheapestFare()
		seats := "-"
		if p, ok := f.Pricing[class]; ok && p.SeatsAvailable > 0 {
			seats = fmt.Sprintf("%d", p.SeatsAvailable)
		}
		t.AppendRow(table.Row{
			f.FlightId,
			f.FlightNumber,
			f.Origin + " → " + f.Destination,
			format.DateTime(f.DepartureTime.Time),
			format.DateTime(f.ArrivalTime.Time),
			format.Duration(f.DepartureTime.Time, f.ArrivalTime.Time),
			format.Money(fare),
			class,
			seats,
		})
	}
	t.Render()
}

func newAirportsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "airports",
		Short: "List the airports served",
		RunE: func(cmd *cobra.Command, args []string) error {
			airports, err := a.client.GetAirports(cmd.Context())
			if err != nil {
				return errors.New(service.Detail(err, "Failed to load airports"))
			}
			if err := store.SaveAirportCache(airports); err != nil {
				a.logger.Warn("save airport cache", "error", err)
			}
			renderAirports(cmd.OutOrStdout(), airports)
			return nil
		},
	}
}

// renderAirports groups airports by country, countries alphabetically.
func renderAirports(w io.Writer, airports []model.Airport) {
	byCountry := make(map[string][]model.Airport)
	for _, a := range airports {
		byCountry[a.Country] = append(byCountry[a.Country], a)
	}
	countries := maps.Keys(byCountry)
	sort.Strings(countries)

	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Country", "Code", "City", "Airport"}, rowConfigAutoMerge)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 4, WidthMax: 40},
	})
	for _, country := range countries {
		list := byCountry[country]
		sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
		for _, ap := range list {
			t.AppendRow(table.Row{country, ap.Code, ap.City, ap.Name}, rowConfigAutoMerge)
		}
	}
	t.Render()
}
