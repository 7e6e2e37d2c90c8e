package main

import "vernopromo/internal/app"

// @title           Vernopromo Membership API
// @version         1.0
// @description     Регистрация участников: вход по SMS-коду, анкета, документы.
// @BasePath        /
func main() {
	app.Run()
}
