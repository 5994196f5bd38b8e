// Package handler 按领域划分的 HTTP 处理器，子包 platform 为平台网关，
// cashier 为模拟收银台，auth 为白名单登录。
//
// 本文件承载 swag 的全局注解，生成命令：
//
//	swag init -g internal/handler/doc.go -o docs
//
// @title 淘宝闪购支付适配服务 API
// @version 1.0
// @description 淘宝闪购支付渠道网关、模拟收银台与登录接口
// @BasePath /pay-adapter
package handler
