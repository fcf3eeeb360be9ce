package cli

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

func (r *runner) productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse and manage the product catalog",
	}
	cmd.AddCommand(
		r.productsListCmd(),
		r.productsGetCmd(),
		r.productsCreateCmd(),
		r.productsDeleteCmd(),
		r.productsAvailabilityCmd(),
	)
	return cmd
}

func (r *runner) productsListCmd() *cobra.Command {
	var (
		filter ports.ProductFilter
		admin  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var (
				list *domain.ProductList
				err  error
			)
			if admin {
				if err := r.requireAdmin(ctx); err != nil {
					return err
				}
				list, err = r.app.Products.ListAdmin(ctx, filter)
			} else {
				list, err = r.app.Products.List(ctx, filter)
			}
			if err != nil {
				return err
			}
			return r.table(list, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tAVAILABLE", func(w io.Writer) {
				for _, p := range list.Products {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%t\n",
						p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.StockQuantity, p.IsAvailable)
				}
				if list.Pages > 1 {
					fmt.Fprintf(w, "\npage %d of %d (%d total)\n", list.Page.Page, list.Pages, list.Total)
				}
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&filter.Category, "category", "", "filter by category")
	f.BoolVar(&filter.IncludeAll, "all", false, "include unavailable products")
	f.IntVar(&filter.Page, "page", 1, "page number")
	f.IntVar(&filter.Limit, "limit", 20, "page size")
	f.BoolVar(&admin, "admin", false, "use the admin listing")
	return cmd
}

func (r *runner) productsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := r.app.Products.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return r.table(p, "FIELD\tVALUE", func(w io.Writer) {
				fmt.Fprintf(w, "id\t%s\n", p.ID)
				fmt.Fprintf(w, "name\t%s\n", p.Name)
				fmt.Fprintf(w, "category\t%s\n", p.Category)
				fmt.Fprintf(w, "price\t%s\n", p.Price.StringFixed(2))
				fmt.Fprintf(w, "stock\t%d\n", p.StockQuantity)
				fmt.Fprintf(w, "available\t%t\n", p.IsAvailable)
				fmt.Fprintf(w, "images\t%d\n", len(p.Images))
				fmt.Fprintf(w, "description\t%s\n", p.Description)
			})
		},
	}
}

func (r *runner) productsCreateCmd() *cobra.Command {
	var (
		input  ports.ProductInput
		price  string
		images []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product with optional images (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			p, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("%w: price %q: %v", domain.ErrInvalidInput, price, err)
			}
			input.Price = p

			files, closeAll, err := openFormFiles("images", images)
			if err != nil {
				return err
			}
			defer closeAll()
			input.NewImages = files
			if len(files) > 0 {
				input.OnProgress = r.progress("uploading")
			}

			created, err := r.app.Products.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			r.done("Created product %s (%s)", created.ID, created.Name)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&input.Name, "name", "", "product name")
	f.StringVar(&input.Description, "description", "", "product description")
	f.StringVar(&input.Category, "category", domain.CategoryFireExtinguishers, "category")
	f.StringVar(&price, "price", "0", "unit price")
	f.IntVar(&input.StockQuantity, "stock", 0, "units in stock")
	f.StringVar(&input.Specifications, "specs", "", "specifications as a JSON object")
	f.BoolVar(&input.IsAvailable, "available", true, "list the product as available")
	f.StringArrayVar(&images, "image", nil, "image file to upload (repeatable)")
	return cmd
}

func (r *runner) productsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := r.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			if err := r.app.Products.Delete(cmd.Context(), id); err != nil {
				return err
			}
			r.done("Deleted product %s", id)
			return nil
		},
	}
}

func (r *runner) productsAvailabilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "availability <id> <true|false>",
		Short: "Toggle whether a product is listed (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			available, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("%w: availability %q", domain.ErrInvalidInput, args[1])
			}
			if err := r.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			if err := r.app.Products.SetAvailability(cmd.Context(), id, available); err != nil {
				return err
			}
			r.done("Product %s available=%t", id, available)
			return nil
		},
	}
}

func (r *runner) uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := r.requireLogin(cmd.Context()); err != nil {
				return err
			}
			files, closeAll, err := openFormFiles("file", args)
			if err != nil {
				return err
			}
			defer closeAll()

			res, err := r.app.Uploads.Upload(cmd.Context(), files[0], r.progress("uploading"))
			if err != nil {
				return err
			}
			if r.flags.json {
				return r.printJSON(res)
			}
			r.done("%s", res.URL)
			return nil
		},
	}
}

// openFormFiles opens paths as multipart file parts. The returned func closes
// every opened file.
func openFormFiles(field string, paths []string) ([]ports.FormFile, func(), error) {
	var (
		files  []ports.FormFile
		opened []*os.File
	)
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("open %s: %w", p, err)
		}
		opened = append(opened, f)
		files = append(files, ports.FormFile{
			Field:       field,
			Filename:    filepath.Base(p),
			ContentType: mime.TypeByExtension(filepath.Ext(p)),
			Content:     f,
		})
	}
	return files, closeAll, nil
}
