package flash

// Key names a user facing message.
type Key string

const (
	AuthLoggedIn           Key = "auth.logged_in"
	AuthLoggedOut          Key = "auth.logged_out"
	AuthRegistered         Key = "auth.registered"
	AuthInvalidCredentials Key = "auth.invalid_credentials"
	AuthEmailTaken         Key = "auth.email_taken"
	AuthInvalidForm        Key = "auth.invalid_form"
	AuthRequired           Key = "auth.required"
	AdminForbidden         Key = "admin.forbidden"

	CartAdded           Key = "cart.added"
	CartUpdated         Key = "cart.updated"
	CartRemoved         Key = "cart.removed"
	CartEmpty           Key = "cart.empty"
	ProductNotFound     Key = "product.not_found"
	AddressSaved        Key = "address.saved"
	AddressDeleted      Key = "address.deleted"
	AddressNotFound     Key = "address.not_found"
	AddressInvalid      Key = "address.invalid"
	AddressRequired     Key = "checkout.address_required"
	PaymentsDisabled    Key = "checkout.payments_disabled"
	PaymentConfirming   Key = "payment.confirming"
	PaymentFailed       Key = "payment.failed"
	OrderNotFound       Key = "order.not_found"
	ProductSaved        Key = "admin.product_saved"
	ProductDeleted      Key = "admin.product_deleted"
	ImageUploaded       Key = "admin.image_uploaded"
	ImageInvalid        Key = "admin.image_invalid"
	CategorySaved       Key = "admin.category_saved"
	CategoryDeleted     Key = "admin.category_deleted"
	CategoryNotFound    Key = "admin.category_not_found"
	SlugTaken           Key = "admin.slug_taken"
	OrderStatusUpdated  Key = "admin.order_status_updated"
	OrderStatusInvalid  Key = "admin.order_status_invalid"
	InvalidForm         Key = "form.invalid"
	Unavailable         Key = "error.unavailable"
)

var catalog = map[string]map[Key]string{
	"es": {
		AuthLoggedIn:           "Sesión iniciada.",
		AuthLoggedOut:          "Sesión cerrada.",
		AuthRegistered:         "Cuenta creada. Ya puedes iniciar sesión.",
		AuthInvalidCredentials: "Correo o contraseña incorrectos.",
		AuthEmailTaken:         "Ese correo ya está registrado.",
		AuthInvalidForm:        "Ingresa un correo válido y una contraseña de al menos 6 caracteres.",
		AuthRequired:           "Inicia sesión para continuar.",
		AdminForbidden:         "Acceso denegado.",
		CartAdded:              "Producto agregado al carrito.",
		CartUpdated:            "Carrito actualizado.",
		CartRemoved:            "Producto eliminado del carrito.",
		CartEmpty:              "Tu carrito está vacío.",
		ProductNotFound:        "Producto no encontrado.",
		AddressSaved:           "Dirección guardada.",
		AddressDeleted:         "Dirección eliminada.",
		AddressNotFound:        "Dirección no encontrada.",
		AddressInvalid:         "Completa nombre, dirección y ciudad.",
		AddressRequired:        "Selecciona una dirección de envío.",
		PaymentsDisabled:       "Los pagos en línea no están disponibles.",
		PaymentConfirming:      "Estamos confirmando tu pago. Te avisaremos cuando se acredite.",
		PaymentFailed:          "El pago no se completó. Puedes intentarlo de nuevo.",
		OrderNotFound:          "Pedido no encontrado.",
		ProductSaved:           "Producto guardado.",
		ProductDeleted:         "Producto eliminado.",
		ImageUploaded:          "Imagen subida.",
		ImageInvalid:           "Sube una imagen PNG, JPG, WEBP o GIF.",
		CategorySaved:          "Categoría guardada.",
		CategoryDeleted:        "Categoría eliminada.",
		CategoryNotFound:       "Categoría no encontrada.",
		SlugTaken:              "Ese slug ya está en uso.",
		OrderStatusUpdated:     "Estado del pedido actualizado.",
		OrderStatusInvalid:     "Estado de pedido no válido.",
		InvalidForm:            "Revisa los datos del formulario.",
		Unavailable:            "No pudimos completar la operación. Intenta de nuevo.",
	},
	"en": {
		AuthLoggedIn:           "Signed in.",
		AuthLoggedOut:          "Signed out.",
		AuthRegistered:         "Account created. You can sign in now.",
		AuthInvalidCredentials: "Wrong email or password.",
		AuthEmailTaken:         "That email is already registered.",
		AuthInvalidForm:        "Enter a valid email and a password of at least 6 characters.",
		AuthRequired:           "Please sign in to continue.",
		AdminForbidden:         "Access denied.",
		CartAdded:              "Product added to your cart.",
		CartUpdated:            "Cart updated.",
		CartRemoved:            "Product removed from your cart.",
		CartEmpty:              "Your cart is empty.",
		ProductNotFound:        "Product not found.",
		AddressSaved:           "Address saved.",
		AddressDeleted:         "Address deleted.",
		AddressNotFound:        "Address not found.",
		AddressInvalid:         "Name, address line and city are required.",
		AddressRequired:        "Choose a shipping address.",
		PaymentsDisabled:       "Online payments are not available.",
		PaymentConfirming:      "We are confirming your payment. Your order updates once it clears.",
		PaymentFailed:          "The payment did not go through. You can try again.",
		OrderNotFound:          "Order not found.",
		ProductSaved:           "Product saved.",
		ProductDeleted:         "Product deleted.",
		ImageUploaded:          "Image uploaded.",
		ImageInvalid:           "Upload a PNG, JPG, WEBP or GIF image.",
		CategorySaved:          "Category saved.",
		CategoryDeleted:        "Category deleted.",
		CategoryNotFound:       "Category not found.",
		SlugTaken:              "That slug is already in use.",
		OrderStatusUpdated:     "Order status updated.",
		OrderStatusInvalid:     "Invalid order status.",
		InvalidForm:            "Please check the form.",
		Unavailable:            "We could not complete that. Please try again.",
	},
}

const defaultLocale = "es"
