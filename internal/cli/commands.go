package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	recipeService "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/core/shopping"

	"github.com/spf13/cobra"
)

func newMatchCmd(a *app) *cobra.Command {
	var (
		online     bool
		minMatch   float64
		threshold  float64
		maxResults int
	)
	cmd := &cobra.Command{
		Use:   "match <ingredient>...",
		Short: "Rank catalog recipes by the ingredients you have",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context(), online)
			if err != nil {
				return err
			}
			req := recipeService.SearchRequest{
				Ingredients:        args,
				IncludeOnline:      online,
				MinMatchPercentage: &minMatch,
				Threshold:          &threshold,
				MaxResults:         &maxResults,
			}

			result, err := svc.Search.Search(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.opts.jsonOutput {
				return printJSON(out, result)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MATCH\tCONFIDENCE\tRECIPE\tSOURCE\tMISSING")
			for _, m := range result.Matches {
				fmt.Fprintf(tw, "%.1f%%\t%.2f\t%s\t%s\t%s\n",
					m.MatchPercentage, m.ConfidenceScore, m.RecipeName, m.Source, strings.Join(m.MissingIngredients, ", "))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d found in %.3fs\n", result.TotalFound, result.SearchTime)
			for _, s := range result.Suggestions {
				fmt.Fprintf(out, "- %s\n", s)
			}
			return nil
		},
	}
	defaults := config.Default().Matching
	cmd.Flags().BoolVar(&online, "online", false, "also search online providers when local results are short")
	cmd.Flags().Float64Var(&minMatch, "min-match", defaults.MinMatchPercentage, "minimum match percentage to display")
	cmd.Flags().Float64Var(&threshold, "threshold", defaults.Threshold, "similarity threshold in [0,1]")
	cmd.Flags().IntVar(&maxResults, "max", defaults.MaxResults, "maximum number of results")
	return cmd
}

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <ingredient>...",
		Short: "Categorize ingredients and suggest substitutions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis := recipeService.NewIngredientService(a.engine).Analyze(args)
			out := cmd.OutOrStdout()
			if a.opts.jsonOutput {
				return printJSON(out, analysis)
			}

			for _, name := range a.engine.Tables.CategoryNames() {
				if items := analysis.Categories[name]; len(items) > 0 {
					fmt.Fprintf(out, "%s: %s\n", name, strings.Join(items, ", "))
				}
			}
			if len(analysis.MissingCategories) > 0 {
				fmt.Fprintf(out, "missing: %s\n", strings.Join(analysis.MissingCategories, ", "))
			}
			for _, u := range analysis.Unrecognized {
				if len(u.Suggestions) > 0 {
					fmt.Fprintf(out, "unrecognized %q, did you mean: %s\n", u.Ingredient, strings.Join(u.Suggestions, ", "))
				}
			}
			return nil
		},
	}
}

func newSimilarCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "similar <recipe-id>",
		Short: "Recommend recipes similar to a catalog recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context(), false)
			if err != nil {
				return err
			}
			result, err := svc.Recommendations.Similar(args[0], &limit)
			if err != nil {
				return err
			}
			return a.printScores(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", config.Default().Recommendation.DefaultLimit, "maximum number of recommendations (0 = all)")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit   int
		exclude []string
	)
	cmd := &cobra.Command{
		Use:   "history <liked-recipe-id>...",
		Short: "Recommend recipes from a set of liked recipes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context(), false)
			if err != nil {
				return err
			}
			req := recipeService.HistoryRequest{LikedIDs: args, ExcludeIngredients: exclude, Limit: &limit}
			result, err := svc.Recommendations.ForHistory(req)
			if err != nil {
				return err
			}
			return a.printScores(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", config.Default().Recommendation.DefaultLimit, "maximum number of recommendations (0 = all)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "skip recipes containing these ingredients")
	return cmd
}

func (a *app) printScores(out io.Writer, result *recipeService.Recommendations) error {
	if a.opts.jsonOutput {
		return printJSON(out, result)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tRECIPE\tID")
	for _, s := range result.Recommendations {
		fmt.Fprintf(tw, "%.2f\t%s\t%s\n", s.Score, s.RecipeName, s.RecipeID)
	}
	return tw.Flush()
}

func newShopCmd(a *app) *cobra.Command {
	var (
		servings  float64
		pantry    []string
		format    string
		noCombine bool
		noSubs    bool
	)
	cmd := &cobra.Command{
		Use:   "shop <recipe-id>...",
		Short: "Build a consolidated shopping list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context(), false)
			if err != nil {
				return err
			}
			combine, subs := !noCombine, !noSubs
			req := recipeService.ShoppingRequest{
				RecipeIDs:            args,
				Pantry:               pantry,
				CombineDuplicates:    &combine,
				IncludeSubstitutions: &subs,
				Format:               format,
			}
			if cmd.Flags().Changed("servings") {
				req.ServingsMultiplier = &servings
			}
			result, err := svc.Shopping.Build(req)
			if err != nil {
				return err
			}
			return shopping.Export(cmd.OutOrStdout(), result.List, result.Format)
		},
	}
	cmd.Flags().Float64Var(&servings, "servings", 1, "servings multiplier")
	cmd.Flags().StringSliceVar(&pantry, "pantry", nil, "ingredients already at home")
	cmd.Flags().StringVar(&format, "format", string(shopping.FormatText), "output format: json, csv or text")
	cmd.Flags().BoolVar(&noCombine, "no-combine", false, "keep every ingredient line separate")
	cmd.Flags().BoolVar(&noSubs, "no-substitutions", false, "omit substitution suggestions")
	return cmd
}

func newParseCmd(a *app) *cobra.Command {
	var servings float64
	cmd := &cobra.Command{
		Use:   "parse <ingredient-line>...",
		Short: "Parse quantity, unit and key of ingredient lines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := recipeService.NewIngredientService(a.engine).Parse(recipeService.ParseRequest{
				Lines:              args,
				ServingsMultiplier: &servings,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.opts.jsonOutput {
				return printJSON(out, items)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "QUANTITY\tUNIT\tKEY\tCATEGORY")
			for _, it := range items {
				qty := "-"
				if it.Quantity != nil {
					qty = shopping.FormatQuantity(*it.Quantity)
				}
				unit := it.CanonicalUnit
				if unit == "" {
					unit = it.Unit
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", qty, unit, it.Key, it.Category)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&servings, "servings", 1, "servings multiplier")
	return cmd
}
