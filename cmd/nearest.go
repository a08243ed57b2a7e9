package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"nearby-places/internal/calculator"
	"nearby-places/internal/display"
	"nearby-places/internal/models"
)

var (
	nearestLat float64
	nearestLng float64
	nearestK   int
)

var nearestCmd = &cobra.Command{
	Use:   "nearest",
	Short: "Print the places closest to a coordinate",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		query := models.Coordinate{Latitude: nearestLat, Longitude: nearestLng}
		if err := calculator.ValidateCoordinate(query); err != nil {
			return err
		}

		k := a.ranker.Limit()
		if cmd.Flags().Changed("count") {
			k = nearestK
		}

		ranked, err := a.ranker.RankN(query, k)
		if err != nil {
			return err
		}

		printRanking(cmd.OutOrStdout(), query, ranked)
		return nil
	},
}

func init() {
	nearestCmd.Flags().Float64Var(&nearestLat, "lat", 0, "query latitude")
	nearestCmd.Flags().Float64Var(&nearestLng, "lng", 0, "query longitude")
	nearestCmd.Flags().IntVarP(&nearestK, "count", "k", 0, "number of places to print (overrides --limit)")
	_ = nearestCmd.MarkFlagRequired("lat")
	_ = nearestCmd.MarkFlagRequired("lng")
}

func printRanking(w io.Writer, query models.Coordinate, ranked []models.RankedResult) {
	fmt.Fprintf(w, "Nearest to %s:\n", display.Coordinate(query.Latitude, query.Longitude))
	if len(ranked) == 0 {
		fmt.Fprintln(w, "  (no places)")
		return
	}
	for i, r := range ranked {
		fmt.Fprintf(w, "%3d. %-24s %12s\n", i+1, r.Point.Name, display.Km(r.DistanceKm))
	}
}
