// cmd/seed/books.go
package main

import "github.com/aoideee/books-api/internal/data"

// demoBooks is the catalogue inserted by the seed command.
var demoBooks = []data.CreateBookInput{
	{Name: "Cien años de soledad", Author: "Gabriel García Márquez", Price: 29.99, Description: ptr("Una obra maestra del realismo mágico que narra la historia de la familia Buendía.")},
	{Name: "Don Quijote de la Mancha", Author: "Miguel de Cervantes", Price: 24.50, Description: ptr("La historia del ingenioso hidalgo y sus aventuras con Sancho Panza.")},
	{Name: "El túnel", Author: "Ernesto Sabato", Price: 19.99, Description: ptr("Una novela psicológica intensa sobre obsesión y soledad.")},
	{Name: "Rayuela", Author: "Julio Cortázar", Price: 26.75, Description: ptr("Una novela experimental que puede leerse de múltiples maneras.")},
	{Name: "La casa de los espíritus", Author: "Isabel Allende", Price: 22.80, Description: ptr("La saga de una familia a través de varias generaciones.")},
	{Name: "Pedro Páramo", Author: "Juan Rulfo", Price: 18.90, Description: ptr("Un pueblo fantasmal y la búsqueda de un padre ausente.")},
	{Name: "Ficciones", Author: "Jorge Luis Borges", Price: 21.60, Description: ptr("Colección de cuentos que exploran laberintos, espejos y bibliotecas infinitas.")},
	{Name: "La ciudad y los perros", Author: "Mario Vargas Llosa", Price: 25.40, Description: ptr("La vida en un colegio militar y los códigos de honor y violencia.")},
	{Name: "Como agua para chocolate", Author: "Laura Esquivel", Price: 20.30, Description: ptr("Una novela donde la cocina y las emociones se entrelazan mágicamente.")},
	{Name: "El amor en los tiempos del cólera", Author: "Gabriel García Márquez", Price: 28.50, Description: ptr("Una historia de amor que perdura a través del tiempo y las adversidades.")},
	{Name: "La sombra del viento", Author: "Carlos Ruiz Zafón", Price: 23.90, Description: ptr("Un misterio literario ambientado en la Barcelona de posguerra.")},
	{Name: "El perfume", Author: "Patrick Süskind", Price: 22.15, Description: ptr("La historia de un asesino obsesionado con los aromas.")},
	{Name: "1984", Author: "George Orwell", Price: 19.75, Description: ptr("Una distopía sobre el totalitarismo y la manipulación de la verdad.")},
	{Name: "Matar a un ruiseñor", Author: "Harper Lee", Price: 21.90, Description: ptr("Una reflexión sobre la injusticia racial en el sur de Estados Unidos.")},
	{Name: "El gran Gatsby", Author: "F. Scott Fitzgerald", Price: 20.45, Description: ptr("La decadencia del sueño americano en los años 20.")},
}

func ptr(s string) *string {
	return &s
}
