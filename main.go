package main

import "gestor/internal/app"

// @title           Gestor API
// @version         1.0
// @description     CRM, kanban de tarefas, calendário e livro financeiro.
// @BasePath        /
func main() {
	app.Run()
}
