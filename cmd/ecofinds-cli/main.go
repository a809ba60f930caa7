package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ecofinds/internal/catalog"
	"ecofinds/internal/client"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}
	catalogURL := os.Getenv("CATALOG_BASE_URL")

	logger := zap.NewExample()
	defer logger.Sync()

	api, err := client.NewClient(baseURL)
	if err != nil {
		log.Fatal(err)
	}
	feed := catalog.NewHTTPClient(catalogURL, logger)
	cart := client.NewCart()
	dashboard := client.NewDashboard()

	// Comprobacion inicial de sesion: resuelve el estado checking-auth.
	if err := api.CheckAuth(ctx); err != nil {
		log.Fatalf("check auth: %v", err)
	}

	for {
		state := api.State()
		fmt.Println("===== EcoFinds =====")
		if u := state.User(); u != nil {
			verified := "sin verificar"
			if u.IsVerified {
				verified = "verificado"
			}
			fmt.Printf("Sesion: %s (%s)\n", u.Email, verified)
		} else {
			fmt.Println("Sesion: anonima")
		}
		fmt.Println("[1] Signup  [2] Login  [3] Verificar email  [4] Logout")
		fmt.Println("[5] Productos  [6] Carrito  [7] Dashboard")
		fmt.Println("[8] Olvide mi password  [9] Reset password  [Q] Salir")
		fmt.Print("Opcion: ")

		choice, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(choice)) {
		case "1":
			email := prompt(reader, "Email: ")
			password := prompt(reader, "Password: ")
			name := prompt(reader, "Nombre: ")
			if _, err := api.Signup(ctx, email, password, name); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Cuenta creada. Revisa tu correo para el codigo de verificacion.")
		case "2":
			email := prompt(reader, "Email: ")
			password := prompt(reader, "Password: ")
			if _, err := api.Login(ctx, email, password); err != nil {
				fmt.Println("Error:", err)
			}
		case "3":
			code := prompt(reader, "Codigo de 6 digitos: ")
			if _, err := api.VerifyEmail(ctx, code); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Email verificado.")
		case "4":
			if err := api.Logout(ctx); err != nil {
				fmt.Println("Error:", err)
			}
		case "5":
			browseProducts(ctx, reader, feed, cart, state)
		case "6":
			showCart(cart)
		case "7":
			showDashboard(dashboard, state)
		case "8":
			email := prompt(reader, "Email: ")
			if err := api.ForgotPassword(ctx, email); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Enlace de reset enviado.")
		case "9":
			token := prompt(reader, "Token de reset: ")
			password := prompt(reader, "Password nueva: ")
			if err := api.ResetPassword(ctx, token, password); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Password actualizada. Inicia sesion de nuevo.")
		case "q":
			return
		}
	}
}

func browseProducts(ctx context.Context, reader *bufio.Reader, feed catalog.Client, cart *client.Cart, state *client.AuthState) {
	if state.GuardProtected() != client.GuardAllow {
		fmt.Println("Necesitas una sesion verificada para ver productos.")
		return
	}

	products, err := feed.FetchProducts(ctx, 7)
	if err != nil {
		fmt.Println("Error cargando catalogo:", err)
		return
	}
	for i, p := range products {
		fmt.Printf("[%d] %s — $%.2f (%s)\n", i+1, p.Title, p.Price, p.Category)
	}
	fmt.Print("Agregar al carrito (numero, vacio para volver): ")
	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(products) {
		fmt.Println("Opcion invalida.")
		return
	}
	cart.Add(products[idx-1])
	fmt.Printf("Agregado. Items en carrito: %d\n", cart.Count())
}

func showCart(cart *client.Cart) {
	items := cart.Items()
	if len(items) == 0 {
		fmt.Println("Carrito vacio.")
		return
	}
	for _, item := range items {
		fmt.Printf("%dx %s — $%.2f\n", item.Quantity, item.Product.Title, item.Product.Price*float64(item.Quantity))
	}
	fmt.Printf("Subtotal: $%.2f\n", cart.Subtotal())
}

func showDashboard(d *client.Dashboard, state *client.AuthState) {
	if state.GuardProtected() != client.GuardAllow {
		fmt.Println("Necesitas una sesion verificada para ver el dashboard.")
		return
	}
	stats := d.Stats()
	fmt.Printf("Publicaciones activas: %d | Ordenes: %d | Guardados: %d | Ganancias: $%.2f\n",
		stats.ActiveListings, stats.TotalOrders, stats.SavedItems, stats.TotalEarnings)
	fmt.Println("-- Publicaciones --")
	for _, l := range d.Listings() {
		fmt.Printf("%s ($%.2f) [%s] %d vistas\n", l.Title, l.Price, l.Status, l.Views)
	}
	fmt.Println("-- Compras --")
	for _, p := range d.Purchases() {
		fmt.Printf("%s %s $%.2f [%s]\n", p.ID, p.Date.Format("2006-01-02"), p.Total, p.Status)
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}
