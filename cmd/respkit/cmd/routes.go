package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gorilla/mux"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/respkit/respkit/pkg/api"
)

var routesOutput string

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes the server exposes",
	Long:  `Walks the server's router and prints every registered route with its methods.`,
	RunE:  runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)

	routesCmd.Flags().StringVarP(&routesOutput, "output", "o", "table", "Output format: table, json, yaml")
}

type routeInfo struct {
	Path    string   `json:"path" yaml:"path"`
	Methods []string `json:"methods" yaml:"methods"`
}

func runRoutes(cmd *cobra.Command, args []string) error {
	router := mux.NewRouter()
	api.NewHandler().RegisterRoutes(router)

	var routes []routeInfo
	err := router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"ANY"}
		}
		routes = append(routes, routeInfo{Path: path, Methods: methods})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk routes: %w", err)
	}
	routes = append(routes, routeInfo{Path: "/metrics", Methods: []string{"GET"}})

	switch routesOutput {
	case "json":
		data, err := json.MarshalIndent(routes, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(routes)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Path", "Methods")
		for _, r := range routes {
			table.Append(r.Path, strings.Join(r.Methods, ", "))
		}
		table.Render()
	}

	return nil
}
