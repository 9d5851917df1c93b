// Command storefront is the bakery storefront client: it browses the
// catalog, manages the cart, and places orders against the commerce API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/redirusmana/bakery-shop-web/internal/app"
	"github.com/redirusmana/bakery-shop-web/internal/cart"
	"github.com/redirusmana/bakery-shop-web/internal/checkout"
	"github.com/redirusmana/bakery-shop-web/internal/config"
	"github.com/redirusmana/bakery-shop-web/internal/session"
	"github.com/redirusmana/bakery-shop-web/pkg/logger"
)

const usage = `Usage: storefront <command> [arguments]

Commands:
  products                      list the catalog
  product <handle>              show one product
  cart                          show the current cart
  add <variant-id> [quantity]   add a line to the cart
  update <line-id> <quantity>   change a line's quantity
  remove <line-id>              remove a line
  login <email> <password>      sign in (resumes a pending checkout)
  register <email> <password> <first> <last>
                                create an account
  logout                        sign out
  checkout <phone> <date> <time>
                                place the order
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("missing command")
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New("storefront", cfg.LogLevel)

	client, err := app.New(cfg, log, nil)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return dispatch(ctx, client, args[0], args[1:])
}

func dispatch(ctx context.Context, client *app.Client, command string, args []string) error {
	switch command {
	case "products":
		return listProducts(ctx, client)
	case "product":
		if len(args) != 1 {
			return fmt.Errorf("usage: product <handle>")
		}
		return showProduct(ctx, client, args[0])
	case "cart":
		return showCart(ctx, client)
	case "add":
		return addLine(ctx, client, args)
	case "update":
		return updateLine(ctx, client, args)
	case "remove":
		if len(args) != 1 {
			return fmt.Errorf("usage: remove <line-id>")
		}
		return client.RemoveLine(ctx, args[0])
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		return client.Login(ctx, session.Credentials{Email: args[0], Password: args[1]})
	case "register":
		if len(args) != 4 {
			return fmt.Errorf("usage: register <email> <password> <first> <last>")
		}
		return client.Register(ctx, session.Registration{
			Email: args[0], Password: args[1], FirstName: args[2], LastName: args[3],
		})
	case "logout":
		client.Logout()
		return nil
	case "checkout":
		if len(args) != 3 {
			return fmt.Errorf("usage: checkout <phone> <date> <time>")
		}
		return client.SubmitCheckout(ctx, checkout.Record{
			Phone: args[0], DeliveryDate: args[1], DeliveryTime: args[2],
		})
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func listProducts(ctx context.Context, client *app.Client) error {
	products, err := client.Products(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Printf("%-28s %-26s from %s\n", p.Handle, p.Title, p.PriceRange.MinVariantPrice.Amount)
	}
	return nil
}

func showProduct(ctx context.Context, client *app.Client, handle string) error {
	p, err := client.Product(ctx, handle)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n%s\n", p.Title, p.Handle, p.Description)
	for _, v := range p.Variants.Nodes {
		fmt.Printf("  %-22s %-12s %s\n", v.ID, v.Title, v.Price.Amount)
	}
	return nil
}

func showCart(ctx context.Context, client *app.Client) error {
	snap, err := client.Cart(ctx)
	if err != nil {
		return err
	}
	for _, l := range snap.Lines.Nodes {
		fmt.Printf("%-42s %dx %-26s %s\n", l.ID, l.Quantity, l.Merchandise.Product.Title, l.Merchandise.Price.Amount)
	}
	fmt.Printf("subtotal: %s\n", snap.Cost.SubtotalAmount.Amount)
	return nil
}

func addLine(ctx context.Context, client *app.Client, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: add <variant-id> [quantity]")
	}
	quantity := 1
	if len(args) == 2 {
		q, err := strconv.Atoi(args[1])
		if err != nil || q < 1 {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		quantity = q
	}
	return client.AddToCart(ctx, cart.AddLinePayload{VariantID: args[0], Quantity: quantity})
}

func updateLine(ctx context.Context, client *app.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: update <line-id> <quantity>")
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil || quantity < 1 {
		return fmt.Errorf("invalid quantity %q", args[1])
	}
	return client.UpdateLine(ctx, cart.UpdateLinePayload{LineID: args[0], Quantity: quantity})
}
